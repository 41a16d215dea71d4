package selench

import (
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
)

// SelectElement drives a <select> dropdown.
type SelectElement struct {
	element *Element
	isMulti bool
}

// NewSelect wraps el, which must be a <select> element.
func NewSelect(el *Element) (*SelectElement, error) {
	tagName, err := el.TagName()
	if err != nil || strings.ToLower(tagName) != "select" {
		return nil, fmt.Errorf(`selench: element should have been "select" but was %q`, tagName)
	}

	// The multiple attribute is boolean: any value but "false" enables it.
	multi := false
	if v, err := el.Attribute("multiple"); err == nil && strings.ToLower(v) != "false" {
		multi = true
	}
	return &SelectElement{element: el, isMulti: multi}, nil
}

// Element returns the wrapped <select> element.
func (s *SelectElement) Element() *Element {
	return s.element
}

// IsMultiple reports whether the dropdown supports selecting several
// options at once.
func (s *SelectElement) IsMultiple() bool {
	return s.isMulti
}

// Options returns every <option> of the dropdown in DOM order.
func (s *SelectElement) Options() ([]*Element, error) {
	return s.options(selenium.ByTagName, "option")
}

// SelectedOptions returns the options currently selected, in DOM order.
func (s *SelectElement) SelectedOptions() ([]*Element, error) {
	opts, err := s.Options()
	if err != nil {
		return nil, err
	}
	var selected []*Element
	for _, opt := range opts {
		on, err := opt.Selected()
		if err != nil {
			return nil, err
		}
		if on {
			selected = append(selected, opt)
		}
	}
	return selected, nil
}

// FirstSelectedOption returns the first currently selected option.
func (s *SelectElement) FirstSelectedOption() (*Element, error) {
	opts, err := s.SelectedOptions()
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("selench: no options are selected")
	}
	return opts[0], nil
}

// SelectByVisibleText selects every option whose display text matches text.
// A single-select stops after the first match.
func (s *SelectElement) SelectByVisibleText(text string) error {
	return s.setByVisibleText(text, true)
}

// SelectByIndex selects the option at the given zero-based index.
func (s *SelectElement) SelectByIndex(index int) error {
	return s.setByIndex(index, true)
}

// SelectByValue selects every option whose value attribute matches value.
// A single-select stops after the first match.
func (s *SelectElement) SelectByValue(value string) error {
	opts, err := s.optionsByValue(value)
	if err != nil {
		return err
	}
	for _, opt := range opts {
		if err := s.setSelected(opt, true); err != nil {
			return err
		}
		if !s.isMulti {
			return nil
		}
	}
	return nil
}

// DeselectAll clears every selection. Only valid for a multi-select.
func (s *SelectElement) DeselectAll() error {
	if !s.isMulti {
		return fmt.Errorf("selench: may only deselect options of a multi-select")
	}
	opts, err := s.Options()
	if err != nil {
		return err
	}
	for _, opt := range opts {
		if err := s.setSelected(opt, false); err != nil {
			return err
		}
	}
	return nil
}

// DeselectByValue deselects every option whose value attribute matches
// value. Only valid for a multi-select.
func (s *SelectElement) DeselectByValue(value string) error {
	if !s.isMulti {
		return fmt.Errorf("selench: may only deselect options of a multi-select")
	}
	opts, err := s.optionsByValue(value)
	if err != nil {
		return err
	}
	for _, opt := range opts {
		if err := s.setSelected(opt, false); err != nil {
			return err
		}
	}
	return nil
}

// DeselectByIndex deselects the option at the given zero-based index. Only
// valid for a multi-select.
func (s *SelectElement) DeselectByIndex(index int) error {
	if !s.isMulti {
		return fmt.Errorf("selench: may only deselect options of a multi-select")
	}
	return s.setByIndex(index, false)
}

// DeselectByVisibleText deselects every option whose display text matches
// text. Only valid for a multi-select.
func (s *SelectElement) DeselectByVisibleText(text string) error {
	if !s.isMulti {
		return fmt.Errorf("selench: may only deselect options of a multi-select")
	}
	return s.setByVisibleText(text, false)
}

func (s *SelectElement) setByVisibleText(text string, selected bool) error {
	opts, err := s.options(selenium.ByXPATH, `.//option[normalize-space(.) = "`+escapeQuotes(text)+`"]`)
	if err != nil {
		return err
	}
	if len(opts) == 0 {
		return fmt.Errorf("selench: cannot locate option with text %q", text)
	}
	for _, opt := range opts {
		if err := s.setSelected(opt, selected); err != nil {
			return err
		}
		if selected && !s.isMulti {
			return nil
		}
	}
	return nil
}

func (s *SelectElement) setByIndex(index int, selected bool) error {
	opts, err := s.Options()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(opts) {
		return fmt.Errorf("selench: cannot locate option with index %d, have %d options", index, len(opts))
	}
	return s.setSelected(opts[index], selected)
}

func (s *SelectElement) optionsByValue(value string) ([]*Element, error) {
	opts, err := s.options(selenium.ByXPATH, `.//option[@value = "`+escapeQuotes(value)+`"]`)
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("selench: cannot locate option with value %q", value)
	}
	return opts, nil
}

// options finds option elements without wait semantics: the <select> is
// already located, so its options are attached.
func (s *SelectElement) options(by, value string) ([]*Element, error) {
	els, err := s.element.we.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	opts := make([]*Element, len(els))
	for i, el := range els {
		opts[i] = &Element{d: s.element.d, we: el, sel: Selector{By: by, Value: value}}
	}
	return opts, nil
}

func (s *SelectElement) setSelected(opt *Element, selected bool) error {
	on, err := opt.Selected()
	if err != nil {
		return err
	}
	if on != selected {
		return opt.Click()
	}
	return nil
}

func escapeQuotes(str string) string {
	return strings.Replace(str, `"`, `\"`, -1)
}
