package deployer

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"favicongen/src/config"
)

// Runner executes an external command and returns its combined output
type Runner func(name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec
func ExecRunner(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Deployer syncs the generated output folder to its deploy target
type Deployer struct {
	cfg    config.DeployConfig
	run    Runner
	logger *slog.Logger
}

// NewDeployer creates a new deployer; a nil runner uses ExecRunner
func NewDeployer(cfg config.DeployConfig, run Runner, logger *slog.Logger) *Deployer {
	if run == nil {
		run = ExecRunner
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Deployer{cfg: cfg, run: run, logger: logger}
}

// Deploy rsyncs outputDir to the configured target. Local targets are
// created first; remote targets (host:path) are left to rsync.
func (d *Deployer) Deploy(outputDir string) error {
	if !d.cfg.Enabled {
		d.logger.Debug("Deploy disabled")
		return nil
	}
	if d.cfg.Target == "" {
		return fmt.Errorf("deploy target is not configured")
	}
	if _, err := os.Stat(outputDir); err != nil {
		return fmt.Errorf("output folder not found: %w", err)
	}

	if !isRemote(d.cfg.Target) {
		if err := os.MkdirAll(d.cfg.Target, 0755); err != nil {
			return fmt.Errorf("failed to create deploy target: %w", err)
		}
	}

	d.logger.Info("🚀 Deploying icons", "target", d.cfg.Target)

	output, err := d.run("rsync", d.Args(outputDir)...)
	if err != nil {
		return fmt.Errorf("rsync failed: %w\nOutput: %s", err, string(output))
	}

	d.logger.Info("✓ Deployed", "target", d.cfg.Target)
	return nil
}

// Args builds the rsync argument list
func (d *Deployer) Args(outputDir string) []string {
	// -a: archive mode (preserves permissions, etc.)
	args := []string{"-a"}

	if d.cfg.Delete {
		args = append(args, "--delete")
	}

	// Add SSH key if specified
	if d.cfg.SSHKey != "" {
		args = append(args, "-e", fmt.Sprintf("ssh -i %s", d.cfg.SSHKey))
	}

	// Trailing slash syncs the folder contents, not the folder itself
	return append(args, withSlash(outputDir), withSlash(d.cfg.Target))
}

func withSlash(path string) string {
	if strings.HasSuffix(path, "/") {
		return path
	}
	return path + "/"
}

// isRemote reports whether target is an rsync host:path or rsync:// URL
func isRemote(target string) bool {
	if strings.HasPrefix(target, "rsync://") {
		return true
	}
	i := strings.Index(target, ":")
	if i <= 0 {
		return false
	}
	// Windows drive letters (C:\...) are local
	if i == 1 {
		return false
	}
	return !strings.Contains(target[:i], "/")
}
