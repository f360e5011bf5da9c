package loadbalancer

import (
	"testing"

	"github.com/sellhub/pos-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("loadbalancer-test", false)
	m.Run()
}

func TestNextRotates(t *testing.T) {
	pool := NewPool([]string{"http://a:8080", "http://b:8080", "http://c:8080"})

	got := []string{pool.Next(), pool.Next(), pool.Next(), pool.Next()}
	want := []string{"http://a:8080", "http://b:8080", "http://c:8080", "http://a:8080"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rotation[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNextSkipsDownInstances(t *testing.T) {
	pool := NewPool([]string{"http://a:8080", "http://b:8080", "http://c:8080"})
	pool.MarkDown("http://b:8080")

	for i := 0; i < 6; i++ {
		if got := pool.Next(); got == "http://b:8080" {
			t.Fatalf("iteration %d returned a down instance", i)
		}
	}

	pool.MarkUp("http://b:8080")
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		seen[pool.Next()] = true
	}
	if !seen["http://b:8080"] {
		t.Fatal("recovered instance never returned to rotation")
	}
}

func TestNextFailsOpenWhenAllDown(t *testing.T) {
	pool := NewPool([]string{"http://a:8080", "http://b:8080"})
	pool.MarkDown("http://a:8080")
	pool.MarkDown("http://b:8080")

	if got := pool.Next(); got == "" {
		t.Fatal("expected an instance even with everything marked down")
	}

	total, up := pool.Size()
	if total != 2 || up != 0 {
		t.Fatalf("Size() = (%d, %d), want (2, 0)", total, up)
	}
}

func TestDefaultInstance(t *testing.T) {
	pool := NewPool(nil)
	if got := pool.Next(); got != "http://localhost:8080" {
		t.Fatalf("Next() = %s, want default instance", got)
	}
}
