package selench

import (
	"fmt"
	"time"

	"github.com/tebeka/selenium"
)

// stubWebDriver implements the subset of selenium.WebDriver the facade's
// unit tests exercise. The embedded interface is nil: calling anything not
// overridden here panics, which keeps the stub honest about what the facade
// actually touches.
type stubWebDriver struct {
	selenium.WebDriver

	findElement  func(by, value string) (selenium.WebElement, error)
	findElements func(by, value string) ([]selenium.WebElement, error)
	title        func() (string, error)
	currentURL   func() (string, error)
	alertText    func() (string, error)
	cookies      []selenium.Cookie
	added        []selenium.Cookie
	handles      []string
	switched     []string
	navigated    []string
	refreshed    int
	quitCalls    int
}

func (s *stubWebDriver) Get(url string) error {
	s.navigated = append(s.navigated, url)
	return nil
}

func (s *stubWebDriver) FindElement(by, value string) (selenium.WebElement, error) {
	if s.findElement == nil {
		return nil, fmt.Errorf("no such element: %s %q", by, value)
	}
	return s.findElement(by, value)
}

func (s *stubWebDriver) FindElements(by, value string) ([]selenium.WebElement, error) {
	if s.findElements == nil {
		return nil, nil
	}
	return s.findElements(by, value)
}

func (s *stubWebDriver) Title() (string, error) {
	if s.title == nil {
		return "", nil
	}
	return s.title()
}

func (s *stubWebDriver) CurrentURL() (string, error) {
	if s.currentURL == nil {
		return "", nil
	}
	return s.currentURL()
}

func (s *stubWebDriver) GetCookies() ([]selenium.Cookie, error) {
	return s.cookies, nil
}

func (s *stubWebDriver) AddCookie(c *selenium.Cookie) error {
	s.added = append(s.added, *c)
	return nil
}

func (s *stubWebDriver) Refresh() error {
	s.refreshed++
	return nil
}

func (s *stubWebDriver) WindowHandles() ([]string, error) {
	return s.handles, nil
}

func (s *stubWebDriver) AlertText() (string, error) {
	if s.alertText == nil {
		return "", fmt.Errorf("no alert open")
	}
	return s.alertText()
}

func (s *stubWebDriver) SwitchWindow(name string) error {
	s.switched = append(s.switched, name)
	return nil
}

func (s *stubWebDriver) Quit() error {
	s.quitCalls++
	return nil
}

// WaitWithTimeoutAndInterval mirrors the collaborator's polling loop: check
// the condition, sleep, give up once timeout has elapsed.
func (s *stubWebDriver) WaitWithTimeoutAndInterval(cond selenium.Condition, timeout, interval time.Duration) error {
	start := time.Now()
	for {
		done, err := cond(s)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if time.Since(start) > timeout {
			return fmt.Errorf("timeout after %v", timeout)
		}
		time.Sleep(interval)
	}
}

// stubWebElement implements the subset of selenium.WebElement the unit
// tests need.
type stubWebElement struct {
	selenium.WebElement

	text         string
	tag          string
	attrs        map[string]string
	selected     bool
	clicks       int
	typed        []string
	findElements func(by, value string) ([]selenium.WebElement, error)
	isEnabled    func() (bool, error)
	isDisplayed  func() (bool, error)
}

func (s *stubWebElement) FindElements(by, value string) ([]selenium.WebElement, error) {
	if s.findElements == nil {
		return nil, nil
	}
	return s.findElements(by, value)
}

func (s *stubWebElement) Text() (string, error)    { return s.text, nil }
func (s *stubWebElement) TagName() (string, error) { return s.tag, nil }

func (s *stubWebElement) GetAttribute(name string) (string, error) {
	v, ok := s.attrs[name]
	if !ok {
		return "", fmt.Errorf("no attribute %q", name)
	}
	return v, nil
}

func (s *stubWebElement) IsSelected() (bool, error) { return s.selected, nil }

func (s *stubWebElement) IsEnabled() (bool, error) {
	if s.isEnabled == nil {
		return true, nil
	}
	return s.isEnabled()
}

func (s *stubWebElement) IsDisplayed() (bool, error) {
	if s.isDisplayed == nil {
		return true, nil
	}
	return s.isDisplayed()
}

func (s *stubWebElement) Click() error {
	s.clicks++
	s.selected = !s.selected
	return nil
}

func (s *stubWebElement) SendKeys(keys string) error {
	s.typed = append(s.typed, keys)
	return nil
}
