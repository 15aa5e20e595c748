package service

import (
	"sync"
	"testing"
	"time"
)

func TestTryAdmitWithinLimit(t *testing.T) {
	t.Parallel()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, retry := l.TryAdmit("u1", base.Add(time.Duration(i)*time.Second))
		if !ok {
			t.Fatalf("mensaje %d rechazado, debía entrar", i+1)
		}
		if retry != 0 {
			t.Fatalf("retry = %v en admisión, debía ser 0", retry)
		}
	}

	ok, retry := l.TryAdmit("u1", base.Add(3*time.Second))
	if ok {
		t.Fatal("cuarto mensaje admitido con límite 3")
	}
	if retry <= 0 || retry > time.Minute {
		t.Fatalf("retry = %v, debía estar en (0, 1m]", retry)
	}
}

func TestRetryAfterOldestSlot(t *testing.T) {
	t.Parallel()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(2, time.Minute)

	l.TryAdmit("u1", base)                    // sale de la ventana en base+60s
	l.TryAdmit("u1", base.Add(10*time.Second)) // sale en base+70s

	now := base.Add(30 * time.Second)
	ok, retry := l.TryAdmit("u1", now)
	if ok {
		t.Fatal("tercer mensaje admitido con límite 2")
	}
	// El slot más viejo se libera en base+60s: faltan 30s desde `now`.
	if want := 30 * time.Second; retry != want {
		t.Fatalf("retry = %v, want %v", retry, want)
	}
}

func TestSlidingWindowBoundary(t *testing.T) {
	t.Parallel()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(2, time.Minute)

	l.TryAdmit("u1", base)
	l.TryAdmit("u1", base.Add(40*time.Second))

	// A los 50s el primero sigue vigente: rechazo.
	if ok, _ := l.TryAdmit("u1", base.Add(50*time.Second)); ok {
		t.Fatal("admitido con la ventana llena")
	}
	// A los 61s el primero ya salió: un slot libre, no dos.
	if ok, _ := l.TryAdmit("u1", base.Add(61*time.Second)); !ok {
		t.Fatal("rechazado con un slot ya liberado")
	}
	if ok, _ := l.TryAdmit("u1", base.Add(62*time.Second)); ok {
		t.Fatal("admitido de más: el segundo envío sigue en ventana")
	}
}

func TestDenialDoesNotConsume(t *testing.T) {
	t.Parallel()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, time.Minute)

	l.TryAdmit("u1", base)
	// Martillar rechazos no corre la ventana.
	for i := 1; i <= 5; i++ {
		if ok, _ := l.TryAdmit("u1", base.Add(time.Duration(i)*time.Second)); ok {
			t.Fatalf("rechazo %d admitido", i)
		}
	}
	if ok, _ := l.TryAdmit("u1", base.Add(61*time.Second)); !ok {
		t.Fatal("los rechazos corrieron la ventana: esto debía entrar")
	}
}

func TestPerUserIsolation(t *testing.T) {
	t.Parallel()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, time.Minute)

	if ok, _ := l.TryAdmit("u1", base); !ok {
		t.Fatal("primer mensaje de u1 rechazado")
	}
	if ok, _ := l.TryAdmit("u1", base.Add(time.Second)); ok {
		t.Fatal("u1 por encima del límite")
	}
	if ok, _ := l.TryAdmit("u2", base.Add(time.Second)); !ok {
		t.Fatal("el límite de u1 contaminó a u2")
	}
}

func TestSweepRemovesStale(t *testing.T) {
	t.Parallel()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(3, time.Minute)

	l.TryAdmit("viejo", base)
	l.TryAdmit("vivo", base.Add(50*time.Second))
	if got := l.Tracked(); got != 2 {
		t.Fatalf("Tracked = %d, want 2", got)
	}

	removed := l.Sweep(base.Add(70 * time.Second))
	if removed != 1 {
		t.Fatalf("Sweep sacó %d registros, want 1", removed)
	}
	if got := l.Tracked(); got != 1 {
		t.Fatalf("Tracked = %d tras el sweep, want 1", got)
	}

	// El usuario barrido vuelve a arrancar de cero sin perder admisiones.
	if ok, _ := l.TryAdmit("viejo", base.Add(71*time.Second)); !ok {
		t.Fatal("usuario barrido no pudo volver a entrar")
	}
}

func TestTryAdmitConcurrent(t *testing.T) {
	t.Parallel()
	const max = 5
	l := NewRateLimiter(max, time.Minute)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.TryAdmit("u1", now); ok {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != max {
		t.Fatalf("admitidos %d de 50 concurrentes, want %d", admitted, max)
	}
}
