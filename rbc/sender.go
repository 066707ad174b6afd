// Package rbc fans optimizer summaries out to UDP and TCP subscribers.
package rbc

import (
	"log"
	"net"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

const (
	tcpQueueLen  = 1000
	dialTimeout  = 2 * time.Second
	writeTimeout = 5 * time.Second
	redialEvery  = 500 * time.Millisecond
)

var dropped = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "burnrate",
	Subsystem: "rbc",
	Name:      "dropped_total",
	Help:      "Messages not delivered to a subscriber.",
}, []string{"transport"})

type udpTarget struct {
	addr *net.UDPAddr
	mask uint32
}

// tcpTarget owns one reconnecting connection fed by a bounded queue.
// Messages are dropped while the queue is full or the peer is unreachable.
type tcpTarget struct {
	addr  string
	mask  uint32
	queue chan []byte
	done  chan struct{}
	// redial limits connection attempts while the peer is down.
	redial *rate.Limiter
}

// Sender delivers each message to every subscriber whose mask covers the
// message flag. It is safe for concurrent use.
type Sender struct {
	mu      sync.RWMutex
	udp     []udpTarget
	tcp     []*tcpTarget
	conn    *net.UDPConn
	prefix  []byte
	running bool
}

// NewSender returns a stopped Sender with no subscribers.
func NewSender() *Sender {
	return &Sender{}
}

// SetHeader prefixes every message with "hdr:". Empty removes the prefix.
func (s *Sender) SetHeader(hdr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefix = nil
	if hdr != "" {
		s.prefix = []byte(hdr + ":")
	}
}

// AddUDPSender registers a UDP subscriber for messages whose flag is covered
// by mask.
func (s *Sender) AddUDPSender(addr string, mask uint32) error {
	ua, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.udp = append(s.udp, udpTarget{addr: ua, mask: mask})
	s.mu.Unlock()
	return nil
}

// AddTCPSender registers a TCP subscriber. The connection is dialed lazily
// after Start.
func (s *Sender) AddTCPSender(addr string, mask uint32) {
	s.mu.Lock()
	s.tcp = append(s.tcp, &tcpTarget{
		addr:   addr,
		mask:   mask,
		queue:  make(chan []byte, tcpQueueLen),
		done:   make(chan struct{}),
		redial: rate.NewLimiter(rate.Every(redialEvery), 1),
	})
	s.mu.Unlock()
}

// Start opens the UDP socket and starts one goroutine per TCP subscriber.
func (s *Sender) Start() error {
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = conn
	s.running = true
	for _, t := range s.tcp {
		go t.run()
	}
	return nil
}

// Stop closes the UDP socket and flushes the TCP queues. Calling it more
// than once is harmless.
func (s *Sender) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	if s.conn != nil {
		s.conn.Close()
	}
	targets := s.tcp
	for _, t := range targets {
		close(t.queue)
	}
	s.mu.Unlock()

	for _, t := range targets {
		<-t.done
	}
}

// Send never blocks. data is not retained.
func (s *Sender) Send(data []byte, flag uint32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return
	}

	msg := make([]byte, 0, len(s.prefix)+len(data))
	msg = append(msg, s.prefix...)
	msg = append(msg, data...)

	for _, t := range s.udp {
		if t.mask&flag != flag {
			continue
		}
		if _, err := s.conn.WriteToUDP(msg, t.addr); err != nil {
			dropped.WithLabelValues("udp").Inc()
		}
	}
	for _, t := range s.tcp {
		if t.mask&flag != flag {
			continue
		}
		select {
		case t.queue <- msg:
		default:
			dropped.WithLabelValues("tcp").Inc()
		}
	}
}

func (t *tcpTarget) run() {
	defer close(t.done)
	var conn net.Conn
	defer func() {
		if conn != nil {
			conn.Close()
		}
	}()

	for msg := range t.queue {
		if conn == nil {
			if !t.redial.Allow() {
				dropped.WithLabelValues("tcp").Inc()
				continue
			}
			c, err := net.DialTimeout("tcp", t.addr, dialTimeout)
			if err != nil {
				dropped.WithLabelValues("tcp").Inc()
				continue
			}
			log.Printf("RBC connected to %s", t.addr)
			conn = c
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := conn.Write(msg); err != nil {
			log.Printf("RBC write to %s failed: %v", t.addr, err)
			dropped.WithLabelValues("tcp").Inc()
			conn.Close()
			conn = nil
		}
	}
}
