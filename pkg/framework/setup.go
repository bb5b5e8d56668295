package framework

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/seb-h2o/automlbenchmark/pkg/core"
)

// SetupMode controls the one-time framework setup step.
type SetupMode string

const (
	// SetupAuto runs setup unless the per-framework marker file exists.
	SetupAuto SetupMode = "auto"
	// SetupSkip bypasses setup entirely.
	SetupSkip SetupMode = "skip"
	// SetupForce runs setup regardless of the marker file.
	SetupForce SetupMode = "force"
	// SetupOnly runs setup and nothing else; the caller stops after it.
	SetupOnly SetupMode = "only"
)

const markerFile = ".setup-complete"

// ParseSetupMode validates a mode string.
func ParseSetupMode(s string) (SetupMode, error) {
	switch SetupMode(strings.ToLower(s)) {
	case SetupAuto, SetupSkip, SetupForce, SetupOnly:
		return SetupMode(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown setup mode: %s", s)
	}
}

// Setup ensures the named framework's dependencies are available: it calls
// the adapter's Setup hook when present, then runs the definition's setup
// command. Completion is recorded in a marker file under cacheDir so that
// auto mode does not repeat the work.
func (r *Registry) Setup(ctx context.Context, name string, mode SetupMode, cacheDir string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mode == SetupSkip {
		return nil
	}

	def, err := r.Definition(name)
	if err != nil {
		return err
	}

	marker := filepath.Join(cacheDir, strings.ToLower(def.Name), markerFile)
	if mode == SetupAuto {
		if _, err := os.Stat(marker); err == nil {
			logger.Debug("framework already set up", zap.String("framework", def.Name))
			return nil
		}
	}

	logger.Info("setting up framework", zap.String("framework", def.Name))

	adapter, err := r.Adapter(name)
	if err != nil {
		return err
	}
	if s, ok := adapter.(core.SetupCapable); ok {
		if err := s.Setup(def.SetupArgs); err != nil {
			return fmt.Errorf("setup framework %s: %w", def.Name, err)
		}
	}
	if def.SetupCmd != "" {
		cmd := exec.CommandContext(ctx, "/bin/sh", "-c", def.SetupCmd)
		output, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("setup command for framework %s: %w: %s", def.Name, err, output)
		}
		logger.Debug("setup command output", zap.String("framework", def.Name), zap.ByteString("output", output))
	}

	if err := os.MkdirAll(filepath.Dir(marker), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		return fmt.Errorf("write setup marker for framework %s: %w", def.Name, err)
	}
	logger.Info("framework setup completed", zap.String("framework", def.Name))
	return nil
}
