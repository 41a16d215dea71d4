package selench

import (
	"strings"
	"testing"
	"time"

	"github.com/tebeka/selenium"
)

func newStubSelect(t *testing.T, multi bool, options ...*stubWebElement) (*SelectElement, *stubWebElement) {
	t.Helper()

	attrs := map[string]string{}
	if multi {
		attrs["multiple"] = "multiple"
	}
	sel := &stubWebElement{
		tag:   "select",
		attrs: attrs,
		findElements: func(by, value string) ([]selenium.WebElement, error) {
			els := make([]selenium.WebElement, 0, len(options))
			for _, o := range options {
				// The XPath helpers filter on value or text; the tag query
				// returns everything.
				if by == selenium.ByXPATH {
					if strings.Contains(value, "@value") && !strings.Contains(value, `"`+o.attrs["value"]+`"`) {
						continue
					}
					if strings.Contains(value, "normalize-space") && !strings.Contains(value, `"`+o.text+`"`) {
						continue
					}
				}
				els = append(els, o)
			}
			return els, nil
		},
	}

	d := newStubDriver(&stubWebDriver{}, time.Second)
	se, err := NewSelect(&Element{d: d, we: sel, sel: CSS("select")})
	if err != nil {
		t.Fatalf("NewSelect(_) returned error: %v", err)
	}
	return se, sel
}

func TestNewSelectRejectsNonSelect(t *testing.T) {
	d := newStubDriver(&stubWebDriver{}, time.Second)
	el := &Element{d: d, we: &stubWebElement{tag: "div"}, sel: CSS("div")}
	if _, err := NewSelect(el); err == nil {
		t.Fatalf("NewSelect(_) on a div returned nil error")
	}
}

func TestSelectByValue(t *testing.T) {
	first := &stubWebElement{tag: "option", text: "First Value", attrs: map[string]string{"value": "first_value"}}
	second := &stubWebElement{tag: "option", text: "Second Value", attrs: map[string]string{"value": "second_value"}}
	se, _ := newStubSelect(t, false, first, second)

	if err := se.SelectByValue("second_value"); err != nil {
		t.Fatalf("se.SelectByValue(_) returned error: %v", err)
	}
	if second.clicks != 1 {
		t.Errorf("second option clicked %d times, want 1", second.clicks)
	}
	if first.clicks != 0 {
		t.Errorf("first option clicked %d times, want 0", first.clicks)
	}

	if err := se.SelectByValue("no_such_value"); err == nil {
		t.Errorf("se.SelectByValue(%q) returned nil, want an error", "no_such_value")
	}
}

func TestSelectByIndex(t *testing.T) {
	first := &stubWebElement{tag: "option", text: "First Value", attrs: map[string]string{"value": "first_value"}}
	second := &stubWebElement{tag: "option", text: "Second Value", attrs: map[string]string{"value": "second_value"}}
	se, _ := newStubSelect(t, false, first, second)

	if err := se.SelectByIndex(1); err != nil {
		t.Fatalf("se.SelectByIndex(1) returned error: %v", err)
	}
	if second.clicks != 1 {
		t.Errorf("second option clicked %d times, want 1", second.clicks)
	}
	if err := se.SelectByIndex(5); err == nil {
		t.Errorf("se.SelectByIndex(5) returned nil, want an out of range error")
	}
}

func TestSelectedOptions(t *testing.T) {
	first := &stubWebElement{tag: "option", text: "First Value", selected: true}
	second := &stubWebElement{tag: "option", text: "Second Value"}
	se, _ := newStubSelect(t, false, first, second)

	opt, err := se.FirstSelectedOption()
	if err != nil {
		t.Fatalf("se.FirstSelectedOption() returned error: %v", err)
	}
	text, err := opt.Text()
	if err != nil {
		t.Fatalf("opt.Text() returned error: %v", err)
	}
	if text != "First Value" {
		t.Errorf("first selected option text = %q, want %q", text, "First Value")
	}
}

func TestDeselectRequiresMulti(t *testing.T) {
	first := &stubWebElement{tag: "option", text: "First Value", selected: true}
	se, _ := newStubSelect(t, false, first)

	if err := se.DeselectAll(); err == nil {
		t.Errorf("se.DeselectAll() on a single-select returned nil, want an error")
	}

	multi := &stubWebElement{tag: "option", text: "First Value", selected: true}
	se, _ = newStubSelect(t, true, multi)
	if !se.IsMultiple() {
		t.Fatalf("se.IsMultiple() = false, want true")
	}
	if err := se.DeselectAll(); err != nil {
		t.Fatalf("se.DeselectAll() returned error: %v", err)
	}
	if multi.clicks != 1 {
		t.Errorf("selected option clicked %d times during DeselectAll, want 1", multi.clicks)
	}
}
