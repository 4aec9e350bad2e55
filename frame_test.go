package ramjet

import (
	"testing"

	"github.com/google/uuid"
	"github.com/tfkr-ae/ramjet/domain"
)

type testElement struct {
	src string
}

func (e *testElement) TagName() string   { return "embed" }
func (e *testElement) Src() string       { return e.src }
func (e *testElement) SetSrc(src string) { e.src = src }

func mustGo(t *testing.T, frame *Frame, address string) {
	t.Helper()
	if err := frame.Go(address); err != nil {
		t.Fatalf("navigating to %s : %v", address, err)
	}
}

func wantURL(t *testing.T, frame *Frame, wanted string) {
	t.Helper()
	got, err := frame.URL()
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	if got != wanted {
		t.Fatalf("\nwanted:\n%v\ngot:\n%v", wanted, got)
	}
}

func TestController_CreateFrame(t *testing.T) {
	c := mustNew(t, nil)

	t.Run("should create an iframe when no element is supplied", func(t *testing.T) {
		frame := c.CreateFrame(nil)

		if _, ok := frame.Element.(*domain.IFrame); !ok {
			t.Fatalf("\nwanted:\n*domain.IFrame\ngot:\n%T", frame.Element)
		}
		if frame.Element.TagName() != "iframe" {
			t.Fatalf("\nwanted:\niframe\ngot:\n%v", frame.Element.TagName())
		}
		if frame.Controller != c {
			t.Fatalf("\nwanted:\n%p\ngot:\n%p", c, frame.Controller)
		}
		if frame.ID == uuid.Nil {
			t.Fatalf("\nwanted:\nnon-nil id\ngot:\n%v", frame.ID)
		}
	})

	t.Run("should adopt the supplied element", func(t *testing.T) {
		element := &testElement{}
		if frame := c.CreateFrame(element); frame.Element != domain.Element(element) {
			t.Fatalf("\nwanted:\n%p\ngot:\n%v", element, frame.Element)
		}
	})

	t.Run("should give every frame its own id and share the controller", func(t *testing.T) {
		first := c.CreateFrame(nil)
		second := c.CreateFrame(nil)

		if first.ID == second.ID {
			t.Fatalf("\nwanted:\ndistinct ids\ngot:\n%v twice", first.ID)
		}
		if first.Element == second.Element {
			t.Fatalf("\nwanted:\ndistinct elements\ngot:\nthe same element")
		}
		if first.Controller != second.Controller {
			t.Fatalf("\nwanted:\na shared controller\ngot:\n%p and %p", first.Controller, second.Controller)
		}
	})
}

func TestFrame_Navigation(t *testing.T) {
	c := mustNew(t, domain.Partial{"prefix": "/px/"})

	t.Run("should point the element at the proxied address", func(t *testing.T) {
		frame := c.CreateFrame(nil)
		mustGo(t, frame, "https://example.com/")

		if src := frame.Element.Src(); src != "/px/https%3A%2F%2Fexample.com%2F" {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", "/px/https%3A%2F%2Fexample.com%2F", src)
		}
		wantURL(t, frame, "https://example.com/")
	})

	t.Run("should report an empty url before navigating", func(t *testing.T) {
		wantURL(t, c.CreateFrame(nil), "")
	})

	t.Run("should move through the history", func(t *testing.T) {
		frame := c.CreateFrame(&testElement{})
		mustGo(t, frame, "https://a.example/")
		mustGo(t, frame, "https://b.example/")

		if frame.Forward() {
			t.Fatalf("\nwanted:\nno forward entry\ngot:\nmoved forward")
		}
		if !frame.Back() {
			t.Fatalf("\nwanted:\nmoved back\ngot:\nno back entry")
		}
		wantURL(t, frame, "https://a.example/")

		if frame.Back() {
			t.Fatalf("\nwanted:\nno back entry\ngot:\nmoved back")
		}
		if !frame.Forward() {
			t.Fatalf("\nwanted:\nmoved forward\ngot:\nno forward entry")
		}
		wantURL(t, frame, "https://b.example/")
	})

	t.Run("should drop forward entries when navigating after going back", func(t *testing.T) {
		frame := c.CreateFrame(nil)
		mustGo(t, frame, "https://a.example/")
		mustGo(t, frame, "https://b.example/")
		if !frame.Back() {
			t.Fatalf("\nwanted:\nmoved back\ngot:\nno back entry")
		}
		mustGo(t, frame, "https://c.example/")

		if frame.Forward() {
			t.Fatalf("\nwanted:\nno forward entry\ngot:\nmoved forward")
		}
		if !frame.Back() {
			t.Fatalf("\nwanted:\nmoved back\ngot:\nno back entry")
		}
		wantURL(t, frame, "https://a.example/")
	})

	t.Run("should keep the source on reload", func(t *testing.T) {
		element := &testElement{}
		frame := c.CreateFrame(element)
		mustGo(t, frame, "https://example.com/")
		before := element.Src()

		frame.Reload()
		if element.Src() != before {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", before, element.Src())
		}
	})
}
