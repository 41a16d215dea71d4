package selench

import (
	"io/ioutil"
	"time"

	"github.com/tebeka/selenium"
)

// Element is a located DOM element. Nested lookups started from it inherit
// the driver's wait semantics.
type Element struct {
	d   *Driver
	we  selenium.WebElement
	sel Selector
}

// Raw returns the underlying WebElement. Use it for collaborator calls the
// facade does not expose.
func (e *Element) Raw() selenium.WebElement {
	return e.we
}

// Selector returns the classified selector the element was located with.
func (e *Element) Selector() Selector {
	return e.sel
}

// Element waits for the first descendant matching selector.
func (e *Element) Element(selector string) (*Element, error) {
	return e.elementBy(DetectSelector(selector), e.d.timeout)
}

// ElementWithin is Element with a per-call timeout override.
func (e *Element) ElementWithin(selector string, timeout time.Duration) (*Element, error) {
	return e.elementBy(DetectSelector(selector), timeout)
}

func (e *Element) elementBy(sel Selector, timeout time.Duration) (*Element, error) {
	var found selenium.WebElement
	err := e.d.waitFor(func(selenium.WebDriver) (bool, error) {
		el, err := e.we.FindElement(sel.By, sel.Value)
		if err != nil {
			return false, nil
		}
		found = el
		return true, nil
	}, timeout)
	if err != nil {
		return nil, &NotFoundError{Selector: sel, Timeout: timeout}
	}
	return &Element{d: e.d, we: found, sel: sel}, nil
}

// Elements waits for at least one descendant matching selector and returns
// all matches in DOM order, or an empty slice when none appear in time.
func (e *Element) Elements(selector string) ([]*Element, error) {
	sel := DetectSelector(selector)
	var found []selenium.WebElement
	err := e.d.waitFor(func(selenium.WebDriver) (bool, error) {
		els, err := e.we.FindElements(sel.By, sel.Value)
		if err != nil || len(els) == 0 {
			return false, nil
		}
		found = els
		return true, nil
	}, e.d.timeout)
	if err != nil {
		return []*Element{}, nil
	}
	elements := make([]*Element, len(found))
	for i, el := range found {
		elements[i] = &Element{d: e.d, we: el, sel: sel}
	}
	return elements, nil
}

// Text returns the element's visible text.
func (e *Element) Text() (string, error) {
	return e.we.Text()
}

// TagName returns the element's tag name.
func (e *Element) TagName() (string, error) {
	return e.we.TagName()
}

// Click clicks the element.
func (e *Element) Click() error {
	return e.we.Click()
}

// SendKeys types the given values into the element, in order. Use the key
// constants for special keys:
//
//	input.SendKeys("Hello World!", selench.Enter)
func (e *Element) SendKeys(values ...string) error {
	for _, v := range values {
		if err := e.we.SendKeys(v); err != nil {
			return err
		}
	}
	return nil
}

// Clear clears a text entry element.
func (e *Element) Clear() error {
	return e.we.Clear()
}

// Submit submits the form the element belongs to.
func (e *Element) Submit() error {
	return e.we.Submit()
}

// Displayed reports whether the element is visible.
func (e *Element) Displayed() (bool, error) {
	return e.we.IsDisplayed()
}

// Enabled reports whether the element is enabled.
func (e *Element) Enabled() (bool, error) {
	return e.we.IsEnabled()
}

// Selected reports whether the element is selected.
func (e *Element) Selected() (bool, error) {
	return e.we.IsSelected()
}

// Attribute returns the named attribute's value.
func (e *Element) Attribute(name string) (string, error) {
	return e.we.GetAttribute(name)
}

// HasAttribute reports whether the element carries the named attribute. The
// collaborator reports missing attributes as an error from GetAttribute,
// which is folded into a false result here.
func (e *Element) HasAttribute(name string) (bool, error) {
	if _, err := e.we.GetAttribute(name); err != nil {
		return false, nil
	}
	return true, nil
}

// CSSProperty returns the computed value of the named CSS property.
func (e *Element) CSSProperty(name string) (string, error) {
	return e.we.CSSProperty(name)
}

// Location returns the element's position in the page.
func (e *Element) Location() (*selenium.Point, error) {
	return e.we.Location()
}

// Size returns the element's rendered size.
func (e *Element) Size() (*selenium.Size, error) {
	return e.we.Size()
}

// Hover moves the mouse to the element's center.
func (e *Element) Hover() error {
	return e.we.MoveTo(0, 0)
}

// DoubleClick double-clicks the element.
func (e *Element) DoubleClick() error {
	if err := e.Hover(); err != nil {
		return err
	}
	return e.d.wd.DoubleClick()
}

// RightClick clicks the element with the right mouse button.
func (e *Element) RightClick() error {
	if err := e.Hover(); err != nil {
		return err
	}
	return e.d.wd.Click(selenium.RightButton)
}

// ScrollIntoView scrolls the page until the element is in the viewport.
func (e *Element) ScrollIntoView() error {
	_, err := e.we.LocationInView()
	return err
}

// SaveScreenshot writes a PNG screenshot of the element to path, scrolling
// it into view first if needed.
func (e *Element) SaveScreenshot(path string) error {
	data, err := e.we.Screenshot(true)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}
