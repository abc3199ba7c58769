package util

import (
	"strings"
	"testing"

	"github.com/ValentinKolb/dStore/lib/common"
	"github.com/ValentinKolb/dStore/lib/store"
	vm "github.com/VictoriaMetrics/metrics"
)

func TestWrapString(t *testing.T) {
	text := "The address of the server. For transports that support load balancing, multiple endpoints can be specified"
	for _, line := range strings.Split(WrapString(text), "\n") {
		if len(line) > Wrap {
			t.Errorf("line exceeds %d characters: %q", Wrap, line)
		}
	}
	if WrapString("") != "" {
		t.Errorf("expected empty string to stay empty")
	}
	if got := WrapString("short   text"); got != "short text" {
		t.Errorf("unexpected wrap result %q", got)
	}
}

func TestNewStorageFactory(t *testing.T) {
	conf := common.DefaultConfig()
	conf.DataDir = t.TempDir()
	conf.Pretty = true

	set := vm.NewSet()
	s := NewStorageFactory(conf, set)().SetNamespace("users")

	if err := s.Store(store.NewMappingRecord("id", "1", store.Mapping{"name": "Ada"})); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	m, ok, err := s.Read("1")
	if err != nil || !ok || m["name"] != "Ada" {
		t.Errorf("unexpected read result %v, %v, %v", m, ok, err)
	}
}
