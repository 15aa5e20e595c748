package storage

import (
	"sync"
	"time"
)

// RelayRecord es una línea de auditoría de un mensaje repartido. Solo
// nombres visibles y un preview corto; nada de esto sobrevive un reinicio.
type RelayRecord struct {
	ReportID   string    `json:"report_id"`
	OriginName string    `json:"origin"`
	Author     string    `json:"author"`
	Preview    string    `json:"preview"`
	Delivered  int       `json:"delivered"`
	Failed     int       `json:"failed"`
	At         time.Time `json:"at"`
}

// HistoryRepo es un anillo acotado: cuando se llena pisa lo más viejo.
type HistoryRepo struct {
	mu    sync.Mutex
	buf   []RelayRecord
	next  int
	full  bool
	total uint64
}

func NewHistoryRepo(limit int) *HistoryRepo {
	if limit <= 0 {
		limit = 500
	}
	return &HistoryRepo{buf: make([]RelayRecord, limit)}
}

func (r *HistoryRepo) Append(rec RelayRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = rec
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
	r.total++
}

// Recent devuelve hasta n registros, del más nuevo al más viejo.
func (r *HistoryRepo) Recent(n int) []RelayRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := r.next
	if r.full {
		size = len(r.buf)
	}
	if n > size {
		n = size
	}
	out := make([]RelayRecord, 0, n)
	for i := 0; i < n; i++ {
		idx := r.next - 1 - i
		if idx < 0 {
			idx += len(r.buf)
		}
		out = append(out, r.buf[idx])
	}
	return out
}

// Total cuenta todo lo repartido desde el arranque, aunque el anillo ya lo
// haya pisado.
func (r *HistoryRepo) Total() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}
