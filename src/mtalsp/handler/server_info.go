package handler

import (
	"fmt"
	"os"
	"strconv"

	"github.com/uber/mta-lsp/src/mtalsp/internal/serverinfofile"
	"go.uber.org/config"
)

const (
	_configKeyServiceName = "service.name"

	_infoFileKeyName = "service-name"
	_infoFileKeyPID  = "service-pid"
)

// Output the service identity so that clients can recognize and signal a running daemon.
// The JSON-RPC module adds its own address field once it is listening.
func outputServiceInfo(cfg config.Provider, infofile serverinfofile.ServerInfoFile) error {
	var name string
	if err := cfg.Get(_configKeyServiceName).Populate(&name); err != nil {
		return fmt.Errorf("loading service config: %w", err)
	}
	if name == "" {
		return fmt.Errorf("missing field %q in config", _configKeyServiceName)
	}

	if err := infofile.UpdateField(_infoFileKeyName, name); err != nil {
		return fmt.Errorf("outputting service name to info file: %w", err)
	}
	if err := infofile.UpdateField(_infoFileKeyPID, strconv.Itoa(os.Getpid())); err != nil {
		return fmt.Errorf("outputting process id to info file: %w", err)
	}
	return nil
}
