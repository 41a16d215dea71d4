package selench

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tebeka/selenium"
)

func newStubDriver(stub *stubWebDriver, timeout time.Duration) *Driver {
	return Wrap(stub, Config{Timeout: timeout, PollInterval: 5 * time.Millisecond})
}

func TestElementUsesDetectedStrategy(t *testing.T) {
	var gotBy, gotValue string
	stub := &stubWebDriver{
		findElement: func(by, value string) (selenium.WebElement, error) {
			gotBy, gotValue = by, value
			return &stubWebElement{}, nil
		},
	}
	d := newStubDriver(stub, time.Second)

	if _, err := d.Element("//div"); err != nil {
		t.Fatalf("d.Element(%q) returned error: %v", "//div", err)
	}
	if gotBy != selenium.ByXPATH || gotValue != "//div" {
		t.Errorf("located with (%q, %q), want (%q, %q)", gotBy, gotValue, selenium.ByXPATH, "//div")
	}

	if _, err := d.Element("#content"); err != nil {
		t.Fatalf("d.Element(%q) returned error: %v", "#content", err)
	}
	if gotBy != selenium.ByCSSSelector || gotValue != "#content" {
		t.Errorf("located with (%q, %q), want (%q, %q)", gotBy, gotValue, selenium.ByCSSSelector, "#content")
	}
}

func TestElementWaitsForPresence(t *testing.T) {
	want := &stubWebElement{text: "late"}
	calls := 0
	stub := &stubWebDriver{
		findElement: func(by, value string) (selenium.WebElement, error) {
			calls++
			if calls < 4 {
				return nil, fmt.Errorf("no such element")
			}
			return want, nil
		},
	}
	d := newStubDriver(stub, time.Second)

	el, err := d.Element("#late")
	if err != nil {
		t.Fatalf("d.Element(_) returned error: %v", err)
	}
	if el.Raw() != selenium.WebElement(want) {
		t.Errorf("d.Element(_) returned a different element than the stub produced")
	}
	if calls < 4 {
		t.Errorf("element returned after %d lookups, want at least 4", calls)
	}
}

func TestElementNotFoundAfterTimeout(t *testing.T) {
	const timeout = 300 * time.Millisecond
	stub := &stubWebDriver{} // FindElement always fails.
	d := newStubDriver(stub, timeout)

	start := time.Now()
	_, err := d.Element("#missing")
	elapsed := time.Since(start)

	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("d.Element(_) returned %v, want a *NotFoundError", err)
	}
	if nfe.Selector.Value != "#missing" {
		t.Errorf("NotFoundError.Selector.Value = %q, want %q", nfe.Selector.Value, "#missing")
	}
	if elapsed < timeout {
		t.Errorf("d.Element(_) failed after %v, want at least the %v wait", elapsed, timeout)
	}
	if elapsed > 10*timeout {
		t.Errorf("d.Element(_) failed after %v, want approximately the %v wait", elapsed, timeout)
	}
}

func TestElementWithinOverridesTimeout(t *testing.T) {
	stub := &stubWebDriver{}
	d := newStubDriver(stub, 10*time.Second)

	start := time.Now()
	_, err := d.ElementWithin("#missing", 100*time.Millisecond)
	elapsed := time.Since(start)

	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("d.ElementWithin(_) returned %v, want a *NotFoundError", err)
	}
	if elapsed > 5*time.Second {
		t.Errorf("d.ElementWithin(_, 100ms) took %v, the default timeout was not overridden", elapsed)
	}
}

func TestElementsKeepDOMOrder(t *testing.T) {
	stub := &stubWebDriver{
		findElements: func(by, value string) ([]selenium.WebElement, error) {
			return []selenium.WebElement{
				&stubWebElement{text: "first"},
				&stubWebElement{text: "second"},
				&stubWebElement{text: "third"},
			}, nil
		},
	}
	d := newStubDriver(stub, time.Second)

	els, err := d.Elements("li")
	if err != nil {
		t.Fatalf("d.Elements(_) returned error: %v", err)
	}
	var texts []string
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			t.Fatalf("el.Text() returned error: %v", err)
		}
		texts = append(texts, text)
	}
	want := []string{"first", "second", "third"}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Errorf("d.Elements(_) order mismatch (-want +got):\n%s", diff)
	}
}

func TestElementsEmptyIsNotAnError(t *testing.T) {
	stub := &stubWebDriver{
		findElements: func(by, value string) ([]selenium.WebElement, error) {
			return nil, nil
		},
	}
	d := newStubDriver(stub, 100*time.Millisecond)

	els, err := d.Elements("#missing")
	if err != nil {
		t.Fatalf("d.Elements(_) returned error %v, want the empty result", err)
	}
	if els == nil {
		t.Fatalf("d.Elements(_) returned a nil slice, want an empty one")
	}
	if len(els) != 0 {
		t.Errorf("d.Elements(_) returned %d elements, want 0", len(els))
	}
}

func TestQuitIsIdempotent(t *testing.T) {
	stub := &stubWebDriver{}
	d := newStubDriver(stub, time.Second)

	if err := d.Quit(); err != nil {
		t.Fatalf("first d.Quit() returned error: %v", err)
	}
	if err := d.Quit(); err != nil {
		t.Fatalf("second d.Quit() returned error: %v", err)
	}
	if stub.quitCalls != 1 {
		t.Errorf("underlying Quit called %d times, want 1", stub.quitCalls)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	cookies := []selenium.Cookie{
		{Name: "cookie-0", Value: "value-0", Path: "/", Domain: "example.com"},
		{Name: "cookie-1", Value: "value-1", Path: "/", Domain: "example.com"},
	}
	saver := newStubDriver(&stubWebDriver{cookies: cookies}, time.Second)

	dir, err := ioutil.TempDir("", "selench")
	if err != nil {
		t.Fatalf("ioutil.TempDir(_, _) returned error: %v", err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "cookies.json")

	if err := saver.SaveSession(path); err != nil {
		t.Fatalf("d.SaveSession(%q) returned error: %v", path, err)
	}

	stub := &stubWebDriver{}
	loader := newStubDriver(stub, time.Second)
	if err := loader.LoadSession(path); err != nil {
		t.Fatalf("d.LoadSession(%q) returned error: %v", path, err)
	}
	if diff := cmp.Diff(cookies, stub.added); diff != "" {
		t.Errorf("loaded cookies mismatch (-want +got):\n%s", diff)
	}
	if stub.refreshed != 1 {
		t.Errorf("LoadSession refreshed %d times, want 1", stub.refreshed)
	}
}

func TestExpectTitleContains(t *testing.T) {
	calls := 0
	stub := &stubWebDriver{
		title: func() (string, error) {
			calls++
			if calls < 4 {
				return "initial", nil
			}
			return "Hello World! at DuckDuckGo", nil
		},
	}
	d := newStubDriver(stub, time.Second)

	if err := d.Expect().TitleContains("Hello World!"); err != nil {
		t.Fatalf("Expect().TitleContains(_) returned error: %v", err)
	}
}

func TestExpectTimeout(t *testing.T) {
	stub := &stubWebDriver{
		title: func() (string, error) { return "something else", nil },
	}
	d := newStubDriver(stub, time.Second)

	err := d.Expect().Within(100 * time.Millisecond).TitleIs("never")
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("Expect().TitleIs(_) returned %v, want a *TimeoutError", err)
	}
	if te.Timeout != 100*time.Millisecond {
		t.Errorf("TimeoutError.Timeout = %v, want %v", te.Timeout, 100*time.Millisecond)
	}
}

func TestSwitchWindowIndex(t *testing.T) {
	stub := &stubWebDriver{handles: []string{"w0", "w1", "w2"}}
	d := newStubDriver(stub, time.Second)

	if err := d.SwitchWindowIndex(1); err != nil {
		t.Fatalf("d.SwitchWindowIndex(1) returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"w1"}, stub.switched); diff != "" {
		t.Errorf("switched windows mismatch (-want +got):\n%s", diff)
	}
	if err := d.SwitchWindowIndex(3); err == nil {
		t.Errorf("d.SwitchWindowIndex(3) returned nil, want an out of range error")
	}
}
