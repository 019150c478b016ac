package field

import (
	"math/rand/v2"
	"testing"

	"github.com/pthm-cable/shardfield/config"
)

func testParams(t testing.TB) *Params {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return NewParams(cfg)
}

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}
