package selench

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/url"
	"time"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/log"
)

// Element waits up to the default timeout for the first element matching
// selector and returns it. The selector string is classified with
// DetectSelector. A *NotFoundError is returned when nothing matches in time.
func (d *Driver) Element(selector string) (*Element, error) {
	return d.ElementBy(DetectSelector(selector))
}

// ElementWithin is Element with a per-call timeout override.
func (d *Driver) ElementWithin(selector string, timeout time.Duration) (*Element, error) {
	return d.elementBy(DetectSelector(selector), timeout)
}

// ElementBy is Element for an explicitly classified selector.
func (d *Driver) ElementBy(sel Selector) (*Element, error) {
	return d.elementBy(sel, d.timeout)
}

func (d *Driver) elementBy(sel Selector, timeout time.Duration) (*Element, error) {
	var found selenium.WebElement
	err := d.waitFor(func(wd selenium.WebDriver) (bool, error) {
		el, err := wd.FindElement(sel.By, sel.Value)
		if err != nil {
			// Not there yet; keep polling.
			return false, nil
		}
		found = el
		return true, nil
	}, timeout)
	if err != nil {
		return nil, &NotFoundError{Selector: sel, Timeout: timeout}
	}
	return &Element{d: d, we: found, sel: sel}, nil
}

// Elements waits up to the default timeout for at least one element matching
// selector and returns all matches in DOM order. When nothing matches within
// the wait window the result is an empty slice, not an error: absence of
// matches is a valid answer for a plural query.
func (d *Driver) Elements(selector string) ([]*Element, error) {
	return d.elementsBy(DetectSelector(selector), d.timeout)
}

// ElementsWithin is Elements with a per-call timeout override.
func (d *Driver) ElementsWithin(selector string, timeout time.Duration) ([]*Element, error) {
	return d.elementsBy(DetectSelector(selector), timeout)
}

// ElementsBy is Elements for an explicitly classified selector.
func (d *Driver) ElementsBy(sel Selector) ([]*Element, error) {
	return d.elementsBy(sel, d.timeout)
}

func (d *Driver) elementsBy(sel Selector, timeout time.Duration) ([]*Element, error) {
	var found []selenium.WebElement
	err := d.waitFor(func(wd selenium.WebDriver) (bool, error) {
		els, err := wd.FindElements(sel.By, sel.Value)
		if err != nil || len(els) == 0 {
			return false, nil
		}
		found = els
		return true, nil
	}, timeout)
	if err != nil {
		return []*Element{}, nil
	}
	elements := make([]*Element, len(found))
	for i, el := range found {
		elements[i] = &Element{d: d, we: el, sel: sel}
	}
	return elements, nil
}

// waitFor polls cond until it reports true or timeout elapses. Conditions
// never return errors; a non-nil result from the collaborator's wait is a
// timeout.
func (d *Driver) waitFor(cond selenium.Condition, timeout time.Duration) error {
	return d.wd.WaitWithTimeoutAndInterval(cond, timeout, d.interval)
}

// Get navigates to the given URL.
func (d *Driver) Get(url string) error {
	return d.wd.Get(url)
}

// BasicAuth navigates to rawurl with the credentials embedded in the URL,
// performing basic authentication. The URL must include the protocol.
func (d *Driver) BasicAuth(rawurl, username, password string) error {
	u, err := url.Parse(rawurl)
	if err != nil {
		return err
	}
	u.User = url.UserPassword(username, password)
	return d.wd.Get(u.String())
}

// Refresh reloads the current page.
func (d *Driver) Refresh() error {
	return d.wd.Refresh()
}

// Back moves backward in history.
func (d *Driver) Back() error {
	return d.wd.Back()
}

// Forward moves forward in history.
func (d *Driver) Forward() error {
	return d.wd.Forward()
}

// Title returns the current page's title.
func (d *Driver) Title() (string, error) {
	return d.wd.Title()
}

// URL returns the current page's URL.
func (d *Driver) URL() (string, error) {
	return d.wd.CurrentURL()
}

// PageSource returns the current page's HTML source.
func (d *Driver) PageSource() (string, error) {
	return d.wd.PageSource()
}

// UserAgent returns the browser's user agent string.
func (d *Driver) UserAgent() (string, error) {
	v, err := d.ExecuteJS("return navigator.userAgent;")
	if err != nil {
		return "", err
	}
	ua, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("selench: navigator.userAgent returned %T, want string", v)
	}
	return ua, nil
}

// BrowserName returns the browser name reported by the session.
func (d *Driver) BrowserName() (string, error) {
	caps, err := d.wd.Capabilities()
	if err != nil {
		return "", err
	}
	name, _ := caps["browserName"].(string)
	return name, nil
}

// Status returns the WebDriver server's status.
func (d *Driver) Status() (*selenium.Status, error) {
	return d.wd.Status()
}

// Log fetches log messages of the given type. The type must have been
// requested through Config.Logs.
func (d *Driver) Log(typ log.Type) ([]log.Message, error) {
	return d.wd.Log(typ)
}

// ExecuteJS runs a script in the page and returns its value.
func (d *Driver) ExecuteJS(script string, args ...interface{}) (interface{}, error) {
	return d.wd.ExecuteScript(script, args)
}

// ExecuteJSAsync runs a script that reports completion by invoking its final
// argument as a callback.
func (d *Driver) ExecuteJSAsync(script string, args ...interface{}) (interface{}, error) {
	return d.wd.ExecuteScriptAsync(script, args)
}

// ScrollBy scrolls the page by the given amounts. Negative x scrolls left,
// negative y scrolls up.
func (d *Driver) ScrollBy(x, y int) error {
	_, err := d.ExecuteJS("window.scrollBy(arguments[0], arguments[1]);", x, y)
	return err
}

// ScrollToBottom scrolls the page to the bottom.
func (d *Driver) ScrollToBottom() error {
	_, err := d.ExecuteJS("window.scrollTo(0, document.body.scrollHeight);")
	return err
}

// Cookies returns all cookies in the browser's jar.
func (d *Driver) Cookies() ([]selenium.Cookie, error) {
	return d.wd.GetCookies()
}

// Cookie returns the named cookie. Only implemented by some drivers; see
// the collaborator's GetCookie.
func (d *Driver) Cookie(name string) (selenium.Cookie, error) {
	return d.wd.GetCookie(name)
}

// AddCookie adds a cookie to the jar.
func (d *Driver) AddCookie(c selenium.Cookie) error {
	return d.wd.AddCookie(&c)
}

// DeleteCookie deletes the named cookie.
func (d *Driver) DeleteCookie(name string) error {
	return d.wd.DeleteCookie(name)
}

// DeleteAllCookies empties the jar.
func (d *Driver) DeleteAllCookies() error {
	return d.wd.DeleteAllCookies()
}

// SaveSession writes the cookie jar to path as JSON.
func (d *Driver) SaveSession(path string) error {
	cookies, err := d.wd.GetCookies()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

// LoadSession reads cookies saved by SaveSession from path, adds them to the
// jar and refreshes the page so they take effect.
func (d *Driver) LoadSession(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	var cookies []selenium.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return err
	}
	for i := range cookies {
		if err := d.wd.AddCookie(&cookies[i]); err != nil {
			return err
		}
	}
	return d.wd.Refresh()
}

// CurrentWindowHandle returns the handle of the focused window.
func (d *Driver) CurrentWindowHandle() (string, error) {
	return d.wd.CurrentWindowHandle()
}

// WindowHandles returns the handles of all open windows.
func (d *Driver) WindowHandles() ([]string, error) {
	return d.wd.WindowHandles()
}

// SwitchWindow switches focus to the window with the given handle or name.
func (d *Driver) SwitchWindow(name string) error {
	return d.wd.SwitchWindow(name)
}

// SwitchWindowIndex switches focus to the i'th open window.
func (d *Driver) SwitchWindowIndex(i int) error {
	handles, err := d.wd.WindowHandles()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(handles) {
		return fmt.Errorf("selench: window index %d out of range, %d windows open", i, len(handles))
	}
	return d.wd.SwitchWindow(handles[i])
}

// NewWindow opens a new browser window and waits until its handle appears.
// Focus stays on the current window; use SwitchWindow to move to it.
func (d *Driver) NewWindow() error {
	return d.openWindow("width=1024,height=768")
}

// NewTab opens a new browser tab and waits until its handle appears. Focus
// stays on the current window; use SwitchWindow to move to it.
func (d *Driver) NewTab() error {
	return d.openWindow("")
}

func (d *Driver) openWindow(features string) error {
	handles, err := d.wd.WindowHandles()
	if err != nil {
		return err
	}
	want := len(handles) + 1
	if _, err := d.ExecuteJS(`window.open("about:blank", "_blank", arguments[0]);`, features); err != nil {
		return err
	}
	err = d.waitFor(func(wd selenium.WebDriver) (bool, error) {
		h, err := wd.WindowHandles()
		if err != nil {
			return false, nil
		}
		return len(h) == want, nil
	}, d.timeout)
	if err != nil {
		return &TimeoutError{Condition: fmt.Sprintf("%d open windows", want), Timeout: d.timeout}
	}
	return nil
}

// CloseWindow closes the window with the given handle.
func (d *Driver) CloseWindow(name string) error {
	return d.wd.CloseWindow(name)
}

// Maximize maximizes the current window.
func (d *Driver) Maximize() error {
	return d.wd.MaximizeWindow("")
}

// SetWindowSize resizes the current window.
func (d *Driver) SetWindowSize(width, height int) error {
	return d.wd.ResizeWindow("", width, height)
}

// SwitchFrame waits for the frame matching selector and switches future
// commands to it.
func (d *Driver) SwitchFrame(selector string) error {
	frame, err := d.Element(selector)
	if err != nil {
		return err
	}
	return d.wd.SwitchFrame(frame.we)
}

// LeaveFrame exits all frames, switching back to the top-level content.
func (d *Driver) LeaveFrame() error {
	return d.wd.SwitchFrame(nil)
}

// SaveScreenshot writes a PNG screenshot of the window to path.
func (d *Driver) SaveScreenshot(path string) error {
	data, err := d.wd.Screenshot()
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

// Alert waits for an alert to be present and returns a handle to it.
func (d *Driver) Alert() (*Alert, error) {
	err := d.waitFor(func(wd selenium.WebDriver) (bool, error) {
		if _, err := wd.AlertText(); err != nil {
			return false, nil
		}
		return true, nil
	}, d.timeout)
	if err != nil {
		return nil, &TimeoutError{Condition: "an alert to be present", Timeout: d.timeout}
	}
	return &Alert{d: d}, nil
}

// Alert is a handle to the browser's open alert, confirm or prompt box.
type Alert struct {
	d *Driver
}

// Text returns the alert's message.
func (a *Alert) Text() (string, error) {
	return a.d.wd.AlertText()
}

// SetText types into a prompt box.
func (a *Alert) SetText(text string) error {
	return a.d.wd.SetAlertText(text)
}

// Accept confirms the alert.
func (a *Alert) Accept() error {
	return a.d.wd.AcceptAlert()
}

// Dismiss cancels the alert.
func (a *Alert) Dismiss() error {
	return a.d.wd.DismissAlert()
}
