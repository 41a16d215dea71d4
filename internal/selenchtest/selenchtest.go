// Package selenchtest provides the shared browser tests for the selench
// facade. They live in a separate package so that the per-browser test
// harnesses can run the same suite against ChromeDriver and GeckoDriver.
package selenchtest

import (
	"context"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/xgbutil"
	socks5 "github.com/armon/go-socks5"
	"github.com/blang/semver"
	"github.com/google/go-cmp/cmp"
	"github.com/tebeka/selenium"

	"github.com/wanmail/selench"
)

// Config describes the browser under test.
type Config struct {
	// Browser is selench.Chrome or selench.Firefox.
	Browser string
	// DriverPath is the path to the driver binary.
	DriverPath string
	// BrowserPath is the path to the browser binary, or empty for the
	// system default.
	BrowserPath string
	// BrowserVersion is the detected browser version, used to gate tests on
	// feature availability. The zero value disables the gates.
	BrowserVersion semver.Version
	// ServerURL is the base URL of the test page server running Handler.
	ServerURL string
	// Headless runs the browser without a display.
	Headless bool
	// SkipProxy skips the proxy tests.
	SkipProxy bool
	// Debug forwards driver output to stderr.
	Debug bool
}

// headlessChromeVersion is the first Chrome release with headless support.
var headlessChromeVersion = semver.MustParse("59.0.0")

func (c Config) newConfig() selench.Config {
	cfg := selench.Config{
		Browser:     c.Browser,
		DriverPath:  c.DriverPath,
		BrowserPath: c.BrowserPath,
		Headless:    c.Headless,
		Timeout:     10 * time.Second,
	}
	if c.Browser == selench.Chrome {
		// The sandbox requires a setuid binary, which the downloaded
		// browsers do not have.
		cfg.ChromeArgs = []string{"--no-sandbox"}
	}
	if c.Debug {
		cfg.DebugOutput = os.Stderr
	}
	return cfg
}

func newDriver(t *testing.T, c Config) *selench.Driver {
	t.Helper()
	if c.Headless && c.Browser == selench.Chrome && c.BrowserVersion.Major > 0 && c.BrowserVersion.LT(headlessChromeVersion) {
		t.Skipf("Chrome %v does not support headless mode", c.BrowserVersion)
	}
	d, err := selench.New(c.newConfig())
	if err != nil {
		t.Fatalf("selench.New(_) returned error: %v", err)
	}
	return d
}

func quitDriver(t *testing.T, d *selench.Driver) {
	if err := d.Quit(); err != nil {
		t.Errorf("d.Quit() returned error: %v", err)
	}
}

func runTest(f func(*testing.T, Config), c Config) func(*testing.T) {
	return func(t *testing.T) {
		f(t, c)
	}
}

// RunFacadeTests runs the full facade suite against the configured browser.
func RunFacadeTests(t *testing.T, c Config) {
	t.Run("Navigation", runTest(testNavigation, c))
	t.Run("ElementCSS", runTest(testElementCSS, c))
	t.Run("ElementXPath", runTest(testElementXPath, c))
	t.Run("ElementAppearsLate", runTest(testElementAppearsLate, c))
	t.Run("ElementNotFound", runTest(testElementNotFound, c))
	t.Run("Elements", runTest(testElements, c))
	t.Run("ElementsEmpty", runTest(testElementsEmpty, c))
	t.Run("SearchEndToEnd", runTest(testSearchEndToEnd, c))
	t.Run("Expect", runTest(testExpect, c))
	t.Run("ExpectCheckbox", runTest(testExpectCheckbox, c))
	t.Run("ExecuteJS", runTest(testExecuteJS, c))
	t.Run("Cookies", runTest(testCookies, c))
	t.Run("SessionFile", runTest(testSessionFile, c))
	t.Run("Windows", runTest(testWindows, c))
	t.Run("Frames", runTest(testFrames, c))
	t.Run("Select", runTest(testSelect, c))
	t.Run("Alert", runTest(testAlert, c))
	t.Run("Screenshot", runTest(testScreenshot, c))
	t.Run("Scroll", runTest(testScroll, c))
	t.Run("QuitTwice", runTest(testQuitTwice, c))
	t.Run("FrameBuffer", runTest(testFrameBuffer, c))
	t.Run("Proxy", runTest(testProxy, c))
}

func get(t *testing.T, d *selench.Driver, u string) {
	t.Helper()
	if err := d.Get(u); err != nil {
		t.Fatalf("d.Get(%q) returned error: %v", u, err)
	}
}

func testNavigation(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)

	get(t, d, c.ServerURL)
	title, err := d.Title()
	if err != nil {
		t.Fatalf("d.Title() returned error: %v", err)
	}
	if title != "Selench Test Suite" {
		t.Fatalf("d.Title() = %q, want %q", title, "Selench Test Suite")
	}

	get(t, d, c.ServerURL+"/other")
	if err := d.Back(); err != nil {
		t.Fatalf("d.Back() returned error: %v", err)
	}
	if err := d.Expect().TitleIs("Selench Test Suite"); err != nil {
		t.Fatalf("after Back: %v", err)
	}
	if err := d.Forward(); err != nil {
		t.Fatalf("d.Forward() returned error: %v", err)
	}
	if err := d.Expect().TitleContains("Other Page"); err != nil {
		t.Fatalf("after Forward: %v", err)
	}
	if err := d.Refresh(); err != nil {
		t.Fatalf("d.Refresh() returned error: %v", err)
	}

	u, err := d.URL()
	if err != nil {
		t.Fatalf("d.URL() returned error: %v", err)
	}
	if !strings.HasPrefix(u, c.ServerURL) {
		t.Fatalf("d.URL() = %q, want prefix %q", u, c.ServerURL)
	}

	source, err := d.PageSource()
	if err != nil {
		t.Fatalf("d.PageSource() returned error: %v", err)
	}
	if !strings.Contains(source, "The other page") {
		t.Fatalf("d.PageSource() does not contain %q", "The other page")
	}
}

func testElementCSS(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL)

	el, err := d.Element(`input[name="q"]`)
	if err != nil {
		t.Fatalf("d.Element(_) returned error: %v", err)
	}
	if el.Selector().By != selenium.ByCSSSelector {
		t.Fatalf("selector classified as %q, want %q", el.Selector().By, selenium.ByCSSSelector)
	}
	name, err := el.Attribute("name")
	if err != nil {
		t.Fatalf("el.Attribute(%q) returned error: %v", "name", err)
	}
	if name != "q" {
		t.Fatalf("el.Attribute(%q) = %q, want %q", "name", name, "q")
	}
	if has, _ := el.HasAttribute("autofocus"); !has {
		t.Errorf("el.HasAttribute(%q) = false, want true", "autofocus")
	}
	if has, _ := el.HasAttribute("nonexistent"); has {
		t.Errorf("el.HasAttribute(%q) = true, want false", "nonexistent")
	}
}

func testElementXPath(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL)

	el, err := d.Element(`//input[@name="q"]`)
	if err != nil {
		t.Fatalf("d.Element(_) returned error: %v", err)
	}
	if el.Selector().By != selenium.ByXPATH {
		t.Fatalf("selector classified as %q, want %q", el.Selector().By, selenium.ByXPATH)
	}
	tag, err := el.TagName()
	if err != nil {
		t.Fatalf("el.TagName() returned error: %v", err)
	}
	if tag != "input" {
		t.Fatalf("el.TagName() = %q, want %q", tag, "input")
	}
}

func testElementAppearsLate(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL+"/late")

	// The page adds #late to the DOM after 500ms; the lookup has to wait
	// for it.
	start := time.Now()
	el, err := d.Element("#late")
	if err != nil {
		t.Fatalf("d.Element(%q) returned error: %v", "#late", err)
	}
	if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
		t.Errorf("d.Element(%q) returned after %v, expected it to wait for the element", "#late", elapsed)
	}
	text, err := el.Text()
	if err != nil {
		t.Fatalf("el.Text() returned error: %v", err)
	}
	if text != "I am late" {
		t.Fatalf("el.Text() = %q, want %q", text, "I am late")
	}
}

func testElementNotFound(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL)

	const timeout = time.Second
	start := time.Now()
	_, err := d.ElementWithin("#no-such-element", timeout)
	elapsed := time.Since(start)
	if _, ok := err.(*selench.NotFoundError); !ok {
		t.Fatalf("d.ElementWithin(_) returned %v, want a *NotFoundError", err)
	}
	if elapsed < timeout {
		t.Errorf("lookup failed after %v, want at least %v", elapsed, timeout)
	}
}

func testElements(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL)

	links, err := d.Elements("a")
	if err != nil {
		t.Fatalf("d.Elements(%q) returned error: %v", "a", err)
	}
	var hrefs []string
	for _, link := range links {
		href, err := link.Attribute("href")
		if err != nil {
			t.Fatalf("link.Attribute(%q) returned error: %v", "href", err)
		}
		hrefs = append(hrefs, strings.TrimPrefix(href, c.ServerURL))
	}
	want := []string{"/other", "/frame", "/late"}
	if diff := cmp.Diff(want, hrefs); diff != "" {
		t.Fatalf("link order mismatch (-want +got):\n%s", diff)
	}
}

func testElementsEmpty(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL)

	els, err := d.ElementsWithin("#no-such-element", time.Second)
	if err != nil {
		t.Fatalf("d.ElementsWithin(_) returned error %v, want the empty result", err)
	}
	if len(els) != 0 {
		t.Fatalf("d.ElementsWithin(_) returned %d elements, want 0", len(els))
	}
}

func testSearchEndToEnd(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL)

	const query = "golang"
	input, err := d.Element(`input[name="q"]`)
	if err != nil {
		t.Fatalf("d.Element(_) returned error: %v", err)
	}
	if err := input.SendKeys(query, selench.Enter); err != nil {
		t.Fatalf("input.SendKeys(_) returned error: %v", err)
	}
	if err := d.Expect().TitleContains(query); err != nil {
		t.Fatalf("title never showed the query: %v", err)
	}
	if err := d.Expect().TextContains("#result", query); err != nil {
		t.Fatalf("result never showed the query: %v", err)
	}
}

func testExpect(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL+"/title")

	// The page changes its title after a second.
	if err := d.Expect().TitleIs("Title changed."); err != nil {
		t.Fatalf("Expect().TitleIs(_) returned error: %v", err)
	}
	if err := d.Expect().URLContains("/title"); err != nil {
		t.Fatalf("Expect().URLContains(_) returned error: %v", err)
	}

	get(t, d, c.ServerURL)
	if err := d.Expect().ElementVisible(`input[name="q"]`); err != nil {
		t.Fatalf("Expect().ElementVisible(_) returned error: %v", err)
	}
	if err := d.Expect().ElementClickable("#submit"); err != nil {
		t.Fatalf("Expect().ElementClickable(_) returned error: %v", err)
	}
	if err := d.Expect().TextNotEmpty("//a"); err != nil {
		t.Fatalf("Expect().TextNotEmpty(_) returned error: %v", err)
	}

	err := d.Expect().Within(time.Second).ElementVisible("#no-such-element")
	if _, ok := err.(*selench.TimeoutError); !ok {
		t.Fatalf("Expect().ElementVisible(_) returned %v, want a *TimeoutError", err)
	}
}

func testExpectCheckbox(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL)

	if err := d.Expect().Checked("#chuk", false); err != nil {
		t.Fatalf("Expect().Checked(_, false) returned error: %v", err)
	}
	box, err := d.Element("#chuk")
	if err != nil {
		t.Fatalf("d.Element(_) returned error: %v", err)
	}
	if err := box.Click(); err != nil {
		t.Fatalf("box.Click() returned error: %v", err)
	}
	if err := d.Expect().Checked("#chuk", true); err != nil {
		t.Fatalf("Expect().Checked(_, true) returned error: %v", err)
	}
}

func testExecuteJS(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL)

	v, err := d.ExecuteJS("return arguments[0] + arguments[1];", 1, 2)
	if err != nil {
		t.Fatalf("d.ExecuteJS(_) returned error: %v", err)
	}
	// JSON numbers decode as float64.
	if n, ok := v.(float64); !ok || n != 3 {
		t.Fatalf("d.ExecuteJS(_) = %v (%T), want 3", v, v)
	}

	ua, err := d.UserAgent()
	if err != nil {
		t.Fatalf("d.UserAgent() returned error: %v", err)
	}
	if ua == "" {
		t.Fatalf("d.UserAgent() returned an empty string")
	}
}

func testCookies(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL)

	cookies, err := d.Cookies()
	if err != nil {
		t.Fatalf("d.Cookies() returned error: %v", err)
	}
	if len(cookies) == 0 {
		t.Fatalf("d.Cookies() returned no cookies, the server sets three")
	}

	if err := d.AddCookie(selenium.Cookie{Name: "selench", Value: "yes", Path: "/"}); err != nil {
		t.Fatalf("d.AddCookie(_) returned error: %v", err)
	}
	cookies, err = d.Cookies()
	if err != nil {
		t.Fatalf("d.Cookies() returned error: %v", err)
	}
	found := false
	for _, ck := range cookies {
		if ck.Name == "selench" && ck.Value == "yes" {
			found = true
		}
	}
	if !found {
		t.Fatalf("added cookie not in the jar: %v", cookies)
	}

	if err := d.DeleteCookie("selench"); err != nil {
		t.Fatalf("d.DeleteCookie(_) returned error: %v", err)
	}
	if err := d.DeleteAllCookies(); err != nil {
		t.Fatalf("d.DeleteAllCookies() returned error: %v", err)
	}
	cookies, err = d.Cookies()
	if err != nil {
		t.Fatalf("d.Cookies() returned error: %v", err)
	}
	if len(cookies) != 0 {
		t.Fatalf("d.Cookies() returned %d cookies after DeleteAllCookies, want 0", len(cookies))
	}
}

func testSessionFile(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL)

	dir, err := ioutil.TempDir("", "selench")
	if err != nil {
		t.Fatalf("ioutil.TempDir(_, _) returned error: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "cookies.json")
	if err := d.SaveSession(path); err != nil {
		t.Fatalf("d.SaveSession(%q) returned error: %v", path, err)
	}
	if err := d.DeleteAllCookies(); err != nil {
		t.Fatalf("d.DeleteAllCookies() returned error: %v", err)
	}
	if err := d.LoadSession(path); err != nil {
		t.Fatalf("d.LoadSession(%q) returned error: %v", path, err)
	}
	cookies, err := d.Cookies()
	if err != nil {
		t.Fatalf("d.Cookies() returned error: %v", err)
	}
	if len(cookies) == 0 {
		t.Fatalf("d.Cookies() returned no cookies after LoadSession")
	}
}

func testWindows(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL)

	first, err := d.CurrentWindowHandle()
	if err != nil {
		t.Fatalf("d.CurrentWindowHandle() returned error: %v", err)
	}

	if err := d.NewTab(); err != nil {
		t.Fatalf("d.NewTab() returned error: %v", err)
	}
	handles, err := d.WindowHandles()
	if err != nil {
		t.Fatalf("d.WindowHandles() returned error: %v", err)
	}
	if len(handles) != 2 {
		t.Fatalf("d.WindowHandles() returned %d handles, want 2", len(handles))
	}

	if err := d.SwitchWindowIndex(1); err != nil {
		t.Fatalf("d.SwitchWindowIndex(1) returned error: %v", err)
	}
	second, err := d.CurrentWindowHandle()
	if err != nil {
		t.Fatalf("d.CurrentWindowHandle() returned error: %v", err)
	}
	if second == first {
		t.Fatalf("still focused on the first window after SwitchWindowIndex(1)")
	}

	if err := d.CloseWindow(second); err != nil {
		t.Fatalf("d.CloseWindow(_) returned error: %v", err)
	}
	if err := d.SwitchWindow(first); err != nil {
		t.Fatalf("d.SwitchWindow(_) returned error: %v", err)
	}
	if err := d.SetWindowSize(1024, 768); err != nil {
		t.Fatalf("d.SetWindowSize(_, _) returned error: %v", err)
	}
}

func testFrames(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL+"/frame")

	if err := d.SwitchFrame("#iframe"); err != nil {
		t.Fatalf("d.SwitchFrame(_) returned error: %v", err)
	}
	// Inside the frame the home page's form is reachable.
	if _, err := d.Element(`input[name="q"]`); err != nil {
		t.Fatalf("d.Element(_) inside the frame returned error: %v", err)
	}

	if err := d.LeaveFrame(); err != nil {
		t.Fatalf("d.LeaveFrame() returned error: %v", err)
	}
	if _, err := d.Element("#outside"); err != nil {
		t.Fatalf("d.Element(_) outside the frame returned error: %v", err)
	}
}

func testSelect(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL)

	el, err := d.Element(`select[name="s"]`)
	if err != nil {
		t.Fatalf("d.Element(_) returned error: %v", err)
	}
	sel, err := selench.NewSelect(el)
	if err != nil {
		t.Fatalf("selench.NewSelect(_) returned error: %v", err)
	}
	if sel.IsMultiple() {
		t.Fatalf("sel.IsMultiple() = true, want false")
	}

	opts, err := sel.Options()
	if err != nil {
		t.Fatalf("sel.Options() returned error: %v", err)
	}
	if len(opts) != 2 {
		t.Fatalf("sel.Options() returned %d options, want 2", len(opts))
	}

	if err := sel.SelectByValue("second_value"); err != nil {
		t.Fatalf("sel.SelectByValue(_) returned error: %v", err)
	}
	opt, err := sel.FirstSelectedOption()
	if err != nil {
		t.Fatalf("sel.FirstSelectedOption() returned error: %v", err)
	}
	text, err := opt.Text()
	if err != nil {
		t.Fatalf("opt.Text() returned error: %v", err)
	}
	if text != "Second Value" {
		t.Fatalf("selected option text = %q, want %q", text, "Second Value")
	}

	if err := sel.SelectByVisibleText("First Value"); err != nil {
		t.Fatalf("sel.SelectByVisibleText(_) returned error: %v", err)
	}
	if err := sel.SelectByIndex(1); err != nil {
		t.Fatalf("sel.SelectByIndex(1) returned error: %v", err)
	}
}

func testAlert(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL+"/alert")

	alert, err := d.Alert()
	if err != nil {
		t.Fatalf("d.Alert() returned error: %v", err)
	}
	text, err := alert.Text()
	if err != nil {
		t.Fatalf("alert.Text() returned error: %v", err)
	}
	if text != "Hello world" {
		t.Fatalf("alert.Text() = %q, want %q", text, "Hello world")
	}
	if err := alert.Accept(); err != nil {
		t.Fatalf("alert.Accept() returned error: %v", err)
	}
}

func testScreenshot(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL)

	dir, err := ioutil.TempDir("", "selench")
	if err != nil {
		t.Fatalf("ioutil.TempDir(_, _) returned error: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "page.png")
	if err := d.SaveScreenshot(path); err != nil {
		t.Fatalf("d.SaveScreenshot(%q) returned error: %v", path, err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("os.Stat(%q) returned error: %v", path, err)
	}
	if fi.Size() == 0 {
		t.Fatalf("screenshot file %q is empty", path)
	}
}

func testScroll(t *testing.T, c Config) {
	d := newDriver(t, c)
	defer quitDriver(t, d)
	get(t, d, c.ServerURL+"/long")

	if err := d.ScrollBy(0, 200); err != nil {
		t.Fatalf("d.ScrollBy(0, 200) returned error: %v", err)
	}
	if err := d.ScrollToBottom(); err != nil {
		t.Fatalf("d.ScrollToBottom() returned error: %v", err)
	}
	v, err := d.ExecuteJS("return window.pageYOffset;")
	if err != nil {
		t.Fatalf("d.ExecuteJS(_) returned error: %v", err)
	}
	if n, ok := v.(float64); !ok || n == 0 {
		t.Fatalf("window.pageYOffset = %v after scrolling, want > 0", v)
	}

	bottom, err := d.Element("#bottom")
	if err != nil {
		t.Fatalf("d.Element(_) returned error: %v", err)
	}
	if err := bottom.ScrollIntoView(); err != nil {
		t.Fatalf("bottom.ScrollIntoView() returned error: %v", err)
	}
}

func testQuitTwice(t *testing.T, c Config) {
	d := newDriver(t, c)
	if err := d.Quit(); err != nil {
		t.Fatalf("first d.Quit() returned error: %v", err)
	}
	if err := d.Quit(); err != nil {
		t.Fatalf("second d.Quit() returned error: %v", err)
	}
}

// testFrameBuffer runs the browser inside an Xvfb frame buffer, exercising
// the ServiceOptions passthrough. The display is checked over X before the
// browser half runs.
func testFrameBuffer(t *testing.T, c Config) {
	if _, err := exec.LookPath("Xvfb"); err != nil {
		t.Skip("Xvfb is not installed")
	}

	fb, err := selenium.NewFrameBuffer()
	if err != nil {
		t.Fatalf("selenium.NewFrameBuffer() returned error: %v", err)
	}
	defer fb.Stop()
	if fb.Display == "" {
		t.Fatalf("frame buffer started with an empty display")
	}

	x, err := xgbutil.NewConnDisplay(":" + fb.Display)
	if err != nil {
		t.Fatalf("could not connect to display %q: %v", fb.Display, err)
	}
	// Closing the X connection right before the frame buffer stops races;
	// let the connection drain first.
	defer time.Sleep(2 * time.Second)
	defer x.Conn().Close()
	if x.Screen().WidthInPixels == 0 {
		t.Fatalf("display %q reports a zero-width screen", fb.Display)
	}

	cfg := c.newConfig()
	cfg.Headless = false
	cfg.ServiceOptions = []selenium.ServiceOption{selenium.StartFrameBuffer()}
	d, err := selench.New(cfg)
	if err != nil {
		t.Fatalf("selench.New(_) returned error: %v", err)
	}
	defer quitDriver(t, d)

	get(t, d, c.ServerURL)
	if err := d.Expect().TitleIs("Selench Test Suite"); err != nil {
		t.Fatalf("title mismatch inside the frame buffer: %v", err)
	}
}

const proxyPageContents = "You are viewing a proxied page"

// addrRewriter rewrites all SOCKS requests to the given host.
type addrRewriter struct {
	u *url.URL
}

func (a *addrRewriter) Rewrite(ctx context.Context, _ *socks5.Request) (context.Context, *socks5.AddrSpec) {
	port, err := strconv.Atoi(a.u.Port())
	if err != nil {
		panic(err)
	}
	return ctx, &socks5.AddrSpec{
		FQDN: a.u.Hostname(),
		Port: port,
	}
}

func testProxy(t *testing.T, c Config) {
	if c.SkipProxy {
		t.Skip("proxy tests disabled by configuration")
	}

	// A separate server that only proxied requests should reach.
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, proxyPageContents)
	}))
	defer s.Close()

	u, err := url.Parse(s.URL)
	if err != nil {
		t.Fatalf("url.Parse(%q) returned error: %v", s.URL, err)
	}

	checkProxied := func(t *testing.T, cfg selench.Config) {
		d, err := selench.New(cfg)
		if err != nil {
			t.Fatalf("selench.New(_) returned error: %v", err)
		}
		defer quitDriver(t, d)

		// Navigate somewhere else entirely; the proxy redirects it.
		if err := d.Get("http://example.invalid/"); err != nil {
			t.Fatalf("d.Get(_) returned error: %v", err)
		}
		source, err := d.PageSource()
		if err != nil {
			t.Fatalf("d.PageSource() returned error: %v", err)
		}
		if !strings.Contains(source, proxyPageContents) {
			t.Fatalf("page source does not contain %q, proxying did not happen", proxyPageContents)
		}
	}

	t.Run("HTTP", func(t *testing.T) {
		cfg := c.newConfig()
		cfg.Proxy = &selenium.Proxy{
			Type: selenium.Manual,
			HTTP: u.Host,
		}
		checkProxied(t, cfg)
	})

	t.Run("SOCKS", func(t *testing.T) {
		socks, err := socks5.New(&socks5.Config{
			Rewriter: &addrRewriter{u},
		})
		if err != nil {
			t.Fatalf("socks5.New(_) returned error: %v", err)
		}
		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("net.Listen(_, _) returned error: %v", err)
		}

		done := make(chan struct{})
		go func() {
			err := socks.Serve(l)
			select {
			case <-done:
				return
			default:
			}
			if err != nil {
				t.Errorf("socks.Serve(_) returned error: %v", err)
			}
		}()
		defer func() {
			close(done)
			l.Close()
		}()

		cfg := c.newConfig()
		cfg.Proxy = &selenium.Proxy{
			Type:         selenium.Manual,
			SOCKS:        l.Addr().String(),
			SOCKSVersion: 5,
		}
		checkProxied(t, cfg)
	})
}
