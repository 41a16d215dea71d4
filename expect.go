package selench

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tebeka/selenium"
)

// Expect provides named polling conditions for synchronizing with
// asynchronous page state. All conditions poll with the driver's default
// timeout and return nil on success or a *TimeoutError on expiry.
type Expect struct {
	d       *Driver
	timeout time.Duration
}

// Expect returns the condition helper for the driver.
func (d *Driver) Expect() *Expect {
	return &Expect{d: d, timeout: d.timeout}
}

// Within returns a copy of the helper with a different timeout.
func (x *Expect) Within(timeout time.Duration) *Expect {
	return &Expect{d: x.d, timeout: timeout}
}

// wait polls cond until success or timeout. Conditions swallow transient
// collaborator errors so polling continues through page loads and stale
// element states.
func (x *Expect) wait(desc string, cond selenium.Condition) error {
	if err := x.d.waitFor(cond, x.timeout); err != nil {
		return &TimeoutError{Condition: desc, Timeout: x.timeout}
	}
	return nil
}

// TitleIs waits until the page title is exactly title.
func (x *Expect) TitleIs(title string) error {
	return x.wait(fmt.Sprintf("title to be %q", title), func(wd selenium.WebDriver) (bool, error) {
		t, err := wd.Title()
		return err == nil && t == title, nil
	})
}

// TitleContains waits until the page title contains the case-sensitive
// substring.
func (x *Expect) TitleContains(substr string) error {
	return x.wait(fmt.Sprintf("title to contain %q", substr), func(wd selenium.WebDriver) (bool, error) {
		t, err := wd.Title()
		return err == nil && strings.Contains(t, substr), nil
	})
}

// URLIs waits until the current URL is exactly url.
func (x *Expect) URLIs(url string) error {
	return x.wait(fmt.Sprintf("url to be %q", url), func(wd selenium.WebDriver) (bool, error) {
		u, err := wd.CurrentURL()
		return err == nil && u == url, nil
	})
}

// URLContains waits until the current URL contains the case-sensitive
// substring.
func (x *Expect) URLContains(substr string) error {
	return x.wait(fmt.Sprintf("url to contain %q", substr), func(wd selenium.WebDriver) (bool, error) {
		u, err := wd.CurrentURL()
		return err == nil && strings.Contains(u, substr), nil
	})
}

// URLMatches waits until the current URL matches the regular expression.
func (x *Expect) URLMatches(re *regexp.Regexp) error {
	return x.wait(fmt.Sprintf("url to match %q", re), func(wd selenium.WebDriver) (bool, error) {
		u, err := wd.CurrentURL()
		return err == nil && re.MatchString(u), nil
	})
}

// ElementPresent waits until an element matching selector is attached to
// the DOM, visible or not.
func (x *Expect) ElementPresent(selector string) error {
	sel := DetectSelector(selector)
	return x.wait(fmt.Sprintf("element %v to be present", sel), func(wd selenium.WebDriver) (bool, error) {
		_, err := wd.FindElement(sel.By, sel.Value)
		return err == nil, nil
	})
}

// ElementVisible waits until an element matching selector is displayed.
func (x *Expect) ElementVisible(selector string) error {
	sel := DetectSelector(selector)
	return x.wait(fmt.Sprintf("element %v to be visible", sel), func(wd selenium.WebDriver) (bool, error) {
		el, err := wd.FindElement(sel.By, sel.Value)
		if err != nil {
			return false, nil
		}
		shown, err := el.IsDisplayed()
		return err == nil && shown, nil
	})
}

// ElementsVisible waits until at least one element matches selector and
// every match is displayed.
func (x *Expect) ElementsVisible(selector string) error {
	sel := DetectSelector(selector)
	return x.wait(fmt.Sprintf("all elements %v to be visible", sel), func(wd selenium.WebDriver) (bool, error) {
		els, err := wd.FindElements(sel.By, sel.Value)
		if err != nil || len(els) == 0 {
			return false, nil
		}
		for _, el := range els {
			shown, err := el.IsDisplayed()
			if err != nil || !shown {
				return false, nil
			}
		}
		return true, nil
	})
}

// ElementInvisible waits until no element matching selector is displayed,
// counting absence from the DOM as invisible.
func (x *Expect) ElementInvisible(selector string) error {
	sel := DetectSelector(selector)
	return x.wait(fmt.Sprintf("element %v to be invisible", sel), func(wd selenium.WebDriver) (bool, error) {
		els, err := wd.FindElements(sel.By, sel.Value)
		if err != nil {
			return false, nil
		}
		for _, el := range els {
			shown, err := el.IsDisplayed()
			if err == nil && shown {
				return false, nil
			}
		}
		return true, nil
	})
}

// ElementClickable waits until an element matching selector is displayed
// and enabled.
func (x *Expect) ElementClickable(selector string) error {
	sel := DetectSelector(selector)
	return x.wait(fmt.Sprintf("element %v to be clickable", sel), func(wd selenium.WebDriver) (bool, error) {
		el, err := wd.FindElement(sel.By, sel.Value)
		if err != nil {
			return false, nil
		}
		shown, err := el.IsDisplayed()
		if err != nil || !shown {
			return false, nil
		}
		enabled, err := el.IsEnabled()
		return err == nil && enabled, nil
	})
}

// ElementStale waits until el is no longer attached to the DOM.
func (x *Expect) ElementStale(el *Element) error {
	return x.wait(fmt.Sprintf("element %v to go stale", el.sel), func(selenium.WebDriver) (bool, error) {
		// Any interaction with a detached element errors out.
		_, err := el.we.IsEnabled()
		return err != nil, nil
	})
}

// TextIs waits until the element matching selector has exactly the given
// visible text.
func (x *Expect) TextIs(selector, text string) error {
	sel := DetectSelector(selector)
	return x.wait(fmt.Sprintf("element %v text to be %q", sel, text), func(wd selenium.WebDriver) (bool, error) {
		el, err := wd.FindElement(sel.By, sel.Value)
		if err != nil {
			return false, nil
		}
		t, err := el.Text()
		return err == nil && t == text, nil
	})
}

// TextContains waits until the element matching selector contains the
// case-sensitive substring in its visible text.
func (x *Expect) TextContains(selector, substr string) error {
	sel := DetectSelector(selector)
	return x.wait(fmt.Sprintf("element %v text to contain %q", sel, substr), func(wd selenium.WebDriver) (bool, error) {
		el, err := wd.FindElement(sel.By, sel.Value)
		if err != nil {
			return false, nil
		}
		t, err := el.Text()
		return err == nil && strings.Contains(t, substr), nil
	})
}

// TextNotEmpty waits until the element matching selector has any visible
// text.
func (x *Expect) TextNotEmpty(selector string) error {
	sel := DetectSelector(selector)
	return x.wait(fmt.Sprintf("element %v to have text", sel), func(wd selenium.WebDriver) (bool, error) {
		el, err := wd.FindElement(sel.By, sel.Value)
		if err != nil {
			return false, nil
		}
		t, err := el.Text()
		return err == nil && t != "", nil
	})
}

// AttributeContains waits until the named attribute of the element matching
// selector contains the case-sensitive substring.
func (x *Expect) AttributeContains(selector, attribute, substr string) error {
	sel := DetectSelector(selector)
	desc := fmt.Sprintf("element %v attribute %q to contain %q", sel, attribute, substr)
	return x.wait(desc, func(wd selenium.WebDriver) (bool, error) {
		el, err := wd.FindElement(sel.By, sel.Value)
		if err != nil {
			return false, nil
		}
		v, err := el.GetAttribute(attribute)
		return err == nil && strings.Contains(v, substr), nil
	})
}

// Checked waits until the element matching selector has selection state
// want, e.g. a checkbox being checked.
func (x *Expect) Checked(selector string, want bool) error {
	sel := DetectSelector(selector)
	state := "checked"
	if !want {
		state = "unchecked"
	}
	return x.wait(fmt.Sprintf("element %v to be %s", sel, state), func(wd selenium.WebDriver) (bool, error) {
		el, err := wd.FindElement(sel.By, sel.Value)
		if err != nil {
			return false, nil
		}
		selected, err := el.IsSelected()
		return err == nil && selected == want, nil
	})
}

// AlertPresent waits until an alert is open.
func (x *Expect) AlertPresent() error {
	return x.wait("an alert to be present", func(wd selenium.WebDriver) (bool, error) {
		_, err := wd.AlertText()
		return err == nil, nil
	})
}

// WindowCount waits until exactly n windows are open.
func (x *Expect) WindowCount(n int) error {
	return x.wait(fmt.Sprintf("%d open windows", n), func(wd selenium.WebDriver) (bool, error) {
		handles, err := wd.WindowHandles()
		return err == nil && len(handles) == n, nil
	})
}
