package logger

import "testing"

func TestLogUsableBeforeInit(t *testing.T) {
	if Log == nil {
		t.Fatal("Log should default to a no-op logger")
	}
	Log.Info("not printed")
}

func TestInitDebug(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	if err := Init(true); err != nil {
		t.Fatalf("Init(true) failed: %v", err)
	}
	if !Log.Core().Enabled(-1) {
		t.Error("debug logger should enable debug level")
	}
}

func TestInitProduction(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	if err := Init(false); err != nil {
		t.Fatalf("Init(false) failed: %v", err)
	}
	if Log.Core().Enabled(-1) {
		t.Error("production logger should not enable debug level")
	}
}
