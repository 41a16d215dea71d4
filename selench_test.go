package selench_test

import (
	"flag"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"testing"

	"github.com/blang/semver"
	"github.com/golang/glog"

	"github.com/wanmail/selench"
	"github.com/wanmail/selench/internal/selenchtest"
)

var (
	chromeDriverPath = flag.String("chrome_driver_path", "", "The path to the ChromeDriver binary. If empty and no downloaded binary is found, the Chrome tests are skipped.")
	chromeBinary     = flag.String("chrome_binary", "testdata/deps/chrome-linux/chrome", "The name of the Chrome binary or the path to it. If it does not exist, the system default is used.")

	geckoDriverPath = flag.String("geckodriver_path", "", "The path to the GeckoDriver binary. If empty and no downloaded binary is found, the Firefox tests are skipped.")
	firefoxBinary   = flag.String("firefox_binary", "testdata/deps/firefox/firefox", "The name of the Firefox binary or the path to it. If it does not exist, the system default is used.")

	headless  = flag.Bool("headless", true, "If true, run the browsers without a visible window.")
	skipProxy = flag.Bool("skip_proxy", false, "If true, skip the proxy tests.")
	debug     = flag.Bool("selench_debug", false, "If true, forward driver process output to stderr.")

	serverURL string
)

func TestMain(m *testing.M) {
	flag.Parse()
	setDriverPaths()

	s := httptest.NewServer(selenchtest.Handler)
	serverURL = s.URL
	defer s.Close()
	os.Exit(m.Run())
}

// findBestPath returns the newest regular file matching glob, or the empty
// string when nothing matches. Downloaded binaries carry their version in
// the name, so newer versions sort to the end.
func findBestPath(pattern string, binary bool) string {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		glog.Warningf("Error globbing %q: %s", pattern, err)
		return ""
	}
	sort.Strings(matches)
	for i := len(matches) - 1; i >= 0; i-- {
		path := matches[i]
		fi, err := os.Stat(path)
		if err != nil {
			glog.Warningf("Error statting %q: %s", path, err)
			continue
		}
		if !fi.Mode().IsRegular() {
			continue
		}
		if binary && fi.Mode().Perm()&0111 == 0 {
			continue
		}
		return path
	}
	return ""
}

func setDriverPaths() {
	if *chromeDriverPath == "" {
		*chromeDriverPath = findBestPath("testdata/deps/chromedriver*", true /*binary*/)
	}
	if *geckoDriverPath == "" {
		*geckoDriverPath = findBestPath("testdata/deps/geckodriver*", true /*binary*/)
	}
	if _, err := os.Stat(*chromeBinary); err != nil {
		*chromeBinary = ""
	}
	if _, err := os.Stat(*firefoxBinary); err != nil {
		*firefoxBinary = ""
	}
}

var versionRE = regexp.MustCompile(`[0-9]+\.[0-9]+(\.[0-9]+)?`)

// browserVersion asks the browser binary for its version. The zero version
// is returned when it cannot be determined, which disables version-gated
// tests.
func browserVersion(binary string) semver.Version {
	if binary == "" {
		return semver.Version{}
	}
	out, err := exec.Command(binary, "--version").Output()
	if err != nil {
		glog.Warningf("Error running %s --version: %s", binary, err)
		return semver.Version{}
	}
	m := versionRE.FindString(string(out))
	if m == "" {
		glog.Warningf("No version in %s --version output %q", binary, out)
		return semver.Version{}
	}
	v, err := semver.ParseTolerant(m)
	if err != nil {
		glog.Warningf("Error parsing version %q: %s", m, err)
		return semver.Version{}
	}
	return v
}

func TestChrome(t *testing.T) {
	if *chromeDriverPath == "" {
		t.Skip("ChromeDriver not found; set -chrome_driver_path or run the fetch tool")
	}
	selenchtest.RunFacadeTests(t, selenchtest.Config{
		Browser:        selench.Chrome,
		DriverPath:     *chromeDriverPath,
		BrowserPath:    *chromeBinary,
		BrowserVersion: browserVersion(*chromeBinary),
		ServerURL:      serverURL,
		Headless:       *headless,
		SkipProxy:      *skipProxy,
		Debug:          *debug,
	})
}

func TestFirefox(t *testing.T) {
	if *geckoDriverPath == "" {
		t.Skip("GeckoDriver not found; set -geckodriver_path or run the fetch tool")
	}
	selenchtest.RunFacadeTests(t, selenchtest.Config{
		Browser:        selench.Firefox,
		DriverPath:     *geckoDriverPath,
		BrowserPath:    *firefoxBinary,
		BrowserVersion: browserVersion(*firefoxBinary),
		ServerURL:      serverURL,
		Headless:       *headless,
		SkipProxy:      *skipProxy,
		Debug:          *debug,
	})
}
