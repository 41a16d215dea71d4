package selench

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	"github.com/tebeka/selenium/log"
)

// Browsers the facade can start a driver service for. Any other browser can
// be reached through Config.RemoteURL and a running WebDriver server.
const (
	Chrome  = "chrome"
	Firefox = "firefox"
	Remote  = "remote"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
)

// Config configures a Driver. The zero value is not usable: at least
// Browser and DriverPath (or RemoteURL) must be set.
type Config struct {
	// Browser is one of Chrome, Firefox and Remote.
	Browser string

	// DriverPath is the path to the ChromeDriver or GeckoDriver binary to
	// start. Ignored when RemoteURL is set.
	DriverPath string

	// BrowserPath optionally overrides the browser binary the driver starts.
	BrowserPath string

	// RemoteURL, if non-empty, connects to an already-running WebDriver
	// server (e.g. a Selenium grid) instead of starting a driver service.
	// The URL must include the protocol and any path prefix such as /wd/hub.
	RemoteURL string

	// Port for the driver service. 0 picks an unused port.
	Port int

	// Timeout is the default explicit wait applied to element lookups and
	// Expect conditions. 0 means DefaultTimeout. Negative is invalid.
	Timeout time.Duration

	// PollInterval is the polling interval for waits. 0 means
	// DefaultPollInterval.
	PollInterval time.Duration

	// Headless runs the browser without a visible window.
	Headless bool

	// Proxy configures the browser's proxy settings.
	Proxy *selenium.Proxy

	// ChromeArgs are extra command-line arguments for the Chrome binary.
	ChromeArgs []string

	// ChromeExtensions are paths to packed .crx extension files to install.
	ChromeExtensions []string

	// ChromeExtensionDirs are paths to unpacked extension directories.
	ChromeExtensionDirs []string

	// FirefoxArgs are extra command-line arguments for the Firefox binary.
	FirefoxArgs []string

	// FirefoxPrefs are about:config preferences to set.
	FirefoxPrefs map[string]interface{}

	// Logs requests collection of the given log types, retrievable with
	// Driver.Log.
	Logs log.Capabilities

	// DebugOutput receives the driver process's output when non-nil.
	DebugOutput io.Writer

	// ServiceOptions are passed through to the driver service, e.g.
	// selenium.StartFrameBuffer().
	ServiceOptions []selenium.ServiceOption
}

// Driver is the facade: one WebDriver session plus the driver service that
// backs it, with a default explicit wait applied to lookups and conditions.
// Not safe for concurrent use.
type Driver struct {
	wd       selenium.WebDriver
	service  *selenium.Service
	timeout  time.Duration
	interval time.Duration
}

// New starts a browser session as described by cfg. The returned Driver owns
// the session and the driver service; release both with Quit. Failures to
// start the driver or the browser are reported as *ConfigurationError.
func New(cfg Config) (*Driver, error) {
	if cfg.Timeout < 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("negative timeout %v", cfg.Timeout)}
	}
	if cfg.RemoteURL == "" && cfg.Browser == Remote {
		return nil, &ConfigurationError{Reason: "browser \"remote\" requires RemoteURL"}
	}

	caps, err := newCapabilities(cfg)
	if err != nil {
		return nil, err
	}

	addr := cfg.RemoteURL
	var service *selenium.Service
	if addr == "" {
		service, addr, err = startService(cfg)
		if err != nil {
			return nil, err
		}
	}

	debugLog("connecting to WebDriver at %s", addr)
	wd, err := selenium.NewRemote(caps, addr)
	if err != nil {
		if service != nil {
			service.Stop()
		}
		return nil, &ConfigurationError{Reason: fmt.Sprintf("starting %s session", browserName(cfg)), Err: err}
	}

	d := Wrap(wd, cfg)
	d.service = service
	return d, nil
}

// Wrap builds a Driver around an existing WebDriver session. Only the
// Timeout and PollInterval fields of cfg are consulted; non-positive values
// fall back to the defaults. Quit ends the wrapped session but has no driver
// service to stop.
func Wrap(wd selenium.WebDriver, cfg Config) *Driver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Driver{wd: wd, timeout: timeout, interval: interval}
}

func browserName(cfg Config) string {
	if cfg.Browser == "" {
		return Chrome
	}
	return cfg.Browser
}

func newCapabilities(cfg Config) (selenium.Capabilities, error) {
	caps := selenium.Capabilities{"browserName": browserName(cfg)}

	switch browserName(cfg) {
	case Chrome:
		c := chrome.Capabilities{
			Path: cfg.BrowserPath,
			Args: append([]string{}, cfg.ChromeArgs...),
		}
		if cfg.Headless {
			c.Args = append(c.Args, "--headless")
		}
		for _, ext := range cfg.ChromeExtensions {
			if err := c.AddExtension(ext); err != nil {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("adding extension %q", ext), Err: err}
			}
		}
		for _, dir := range cfg.ChromeExtensionDirs {
			if err := c.AddUnpackedExtension(dir); err != nil {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("adding unpacked extension %q", dir), Err: err}
			}
		}
		caps.AddChrome(c)
	case Firefox:
		f := firefox.Capabilities{
			Binary: cfg.BrowserPath,
			Args:   append([]string{}, cfg.FirefoxArgs...),
			Prefs:  cfg.FirefoxPrefs,
		}
		if cfg.Headless {
			f.Args = append(f.Args, "-headless")
		}
		caps.AddFirefox(f)
	case Remote:
		// The remote end decides the browser; callers set capabilities
		// through the underlying WebDriver if they need more.
	default:
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown browser %q", cfg.Browser)}
	}

	if cfg.Proxy != nil {
		caps.AddProxy(*cfg.Proxy)
	}
	if cfg.Logs != nil {
		caps.AddLogging(cfg.Logs)
	}
	return caps, nil
}

func startService(cfg Config) (*selenium.Service, string, error) {
	if cfg.DriverPath == "" {
		return nil, "", &ConfigurationError{Reason: fmt.Sprintf("browser %q requires DriverPath", browserName(cfg))}
	}

	port := cfg.Port
	if port == 0 {
		var err error
		if port, err = pickUnusedPort(); err != nil {
			return nil, "", &ConfigurationError{Reason: "picking a port", Err: err}
		}
	}

	opts := cfg.ServiceOptions
	if cfg.DebugOutput != nil {
		opts = append(opts, selenium.Output(cfg.DebugOutput))
	}

	debugLog("starting %s driver service %q on port %d", browserName(cfg), cfg.DriverPath, port)
	var service *selenium.Service
	var addr string
	var err error
	switch browserName(cfg) {
	case Chrome:
		service, err = selenium.NewChromeDriverService(cfg.DriverPath, port, opts...)
		addr = fmt.Sprintf("http://localhost:%d/wd/hub", port)
	case Firefox:
		service, err = selenium.NewGeckoDriverService(cfg.DriverPath, port, opts...)
		addr = fmt.Sprintf("http://localhost:%d", port)
	}
	if err != nil {
		return nil, "", &ConfigurationError{Reason: fmt.Sprintf("starting %s driver service", browserName(cfg)), Err: err}
	}
	return service, addr, nil
}

func pickUnusedPort() (int, error) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, err
	}
	port := l.Addr().(*net.TCPAddr).Port
	if err := l.Close(); err != nil {
		return 0, err
	}
	return port, nil
}

// WebDriver returns the underlying WebDriver session. Use it for
// collaborator calls the facade does not expose.
func (d *Driver) WebDriver() selenium.WebDriver {
	return d.wd
}

// Timeout returns the default explicit wait.
func (d *Driver) Timeout() time.Duration {
	return d.timeout
}

// Close closes the current window.
func (d *Driver) Close() error {
	return d.wd.Close()
}

// Quit ends the session and stops the driver service if the Driver started
// one. Quit is idempotent: calls after the first are no-ops. No other Driver
// method may be called after Quit; the session is gone.
func (d *Driver) Quit() error {
	if d.wd == nil {
		return nil
	}
	debugLog("ending session")
	err := d.wd.Quit()
	d.wd = nil
	if d.service != nil {
		if serr := d.service.Stop(); err == nil {
			err = serr
		}
		d.service = nil
	}
	return err
}
