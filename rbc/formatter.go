package rbc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeLayout = "20060102150405.000"

// MaxMessageLen is the longest message the 3-digit length field can carry.
const MaxMessageLen = 999

var ErrMessageTooLong = errors.New("rbc: message longer than 999 bytes")

// fillLength writes the message length into bytes 8..10, the blanks after
// an 8-character tag such as "summary:".
func fillLength(b []byte) ([]byte, error) {
	n := len(b)
	if n > MaxMessageLen {
		return nil, fmt.Errorf("%w: %d", ErrMessageTooLong, n)
	}
	if n >= 100 {
		b[8] = byte('0' + n/100)
	}
	b[9] = byte('0' + (n/10)%10)
	b[10] = byte('0' + n%10)
	return b, nil
}

// FormatProgress formats a generation summary:
//
//	summary:   ,<run>,<generation>,<time>,<best>,<mean>,<feasible>\r\n
func FormatProgress(runID string, ts time.Time, generation int, best, mean float64, feasible int) ([]byte, error) {
	body := fmt.Sprintf("summary:   ,%s,%d,%s,%s,%s,%d\r\n",
		runID, generation, ts.Format(timeLayout), formatFloat(best), formatFloat(mean), feasible)
	return fillLength([]byte(body))
}

// FormatResult formats the final vector:
//
//	outcome:   ,<run>,<time>,<fitness>,<stop reason>,<v0> <v1> ...\r\n
func FormatResult(runID string, ts time.Time, fitness float64, reason string, vector []float64) ([]byte, error) {
	vals := make([]string, len(vector))
	for i, x := range vector {
		vals[i] = formatFloat(x)
	}
	body := fmt.Sprintf("outcome:   ,%s,%s,%s,%s,%s\r\n",
		runID, ts.Format(timeLayout), formatFloat(fitness), strings.ReplaceAll(reason, ",", ";"), strings.Join(vals, " "))
	return fillLength([]byte(body))
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', 10, 64)
}
