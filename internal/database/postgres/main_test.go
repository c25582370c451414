package postgres

import (
	"flag"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	flag.Parse()
	code := m.Run()
	if testShutdown != nil {
		testShutdown()
	}
	os.Exit(code)
}
