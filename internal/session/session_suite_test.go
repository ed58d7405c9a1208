package session_test

import (
	"io"
	"testing"

	"github.com/convox/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSession(t *testing.T) {
	logger.Output = io.Discard
	RegisterFailHandler(Fail)
	RunSpecs(t, "Session Suite")
}
