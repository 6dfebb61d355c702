package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

// WriteTextfile writes every metric in reg to path in the Prometheus text
// format. The file is replaced atomically.
func WriteTextfile(path string, reg *prom.Registry) error {
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return errors.FileSystemError("failed to write metrics file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
