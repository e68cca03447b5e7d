// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/platinasystems/acpuclock/goes/cmd"
	"github.com/platinasystems/acpuclock/goes/lang"
)

var errBoom = errors.New("boom")

type echo struct{ got []string }

func (*echo) String() string { return "echo" }
func (*echo) Usage() string  { return "echo [STRING]..." }
func (*echo) Apropos() lang.Alt {
	return lang.Alt{lang.EnUS: "print arguments"}
}
func (*echo) Man() lang.Alt {
	return lang.Alt{lang.EnUS: "DESCRIPTION\n\tPrints."}
}
func (e *echo) Main(args ...string) error {
	e.got = args
	return nil
}

type daemon struct{ closed bool }

func (*daemon) String() string                { return "daemon" }
func (*daemon) Usage() string                 { return "daemon" }
func (*daemon) Apropos() lang.Alt             { return lang.Alt{lang.EnUS: "test"} }
func (*daemon) Kind() cmd.Kind                { return cmd.Daemon }
func (*daemon) Main(...string) error          { return errBoom }
func (*daemon) Complete(...string) []string   { return []string{"x"} }
func (d *daemon) Close() error                { d.closed = true; return nil }

func testGoes() (*Goes, *echo) {
	e := new(echo)
	g := &Goes{NAME: "goes-test"}
	g.Plot(e, new(daemon))
	return g, e
}

func TestDispatch(t *testing.T) {
	g, e := testGoes()
	if err := g.Main("echo", "a", "b"); err != nil {
		t.Fatal(err)
	}
	if got, want := e.got, []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("args: got %v want %v", got, want)
	}
	if err := g.Main("nope"); err == nil {
		t.Error("nope: no error")
	}
	if err := g.Main("daemon"); err != errBoom {
		t.Errorf("daemon: got %v", err)
	}
}

func TestPlotDuplicate(t *testing.T) {
	g, _ := testGoes()
	defer func() {
		if recover() == nil {
			t.Error("no panic")
		}
	}()
	g.Plot(new(echo))
}

func TestSwap(t *testing.T) {
	for _, x := range []struct{ in, want []string }{
		{[]string{"echo", "-help"}, []string{"help", "echo"}},
		{[]string{"echo", "--man"}, []string{"man", "echo"}},
		{[]string{"echo", "-n"}, []string{"echo", "-n"}},
		{[]string{"-usage"}, []string{"usage"}},
	} {
		args := append([]string(nil), x.in...)
		cmd.Swap(args)
		if !reflect.DeepEqual(args, x.want) {
			t.Errorf("%v: got %v want %v", x.in, args, x.want)
		}
	}
}

func TestComplete(t *testing.T) {
	g, _ := testGoes()
	for _, x := range []struct {
		args []string
		want []string
	}{
		{nil, []string{"daemon", "echo"}},
		{[]string{"e"}, []string{"echo"}},
		{[]string{"c"}, []string{"complete"}},
		{[]string{"daemon", ""}, []string{"x"}},
		{[]string{"man", "d"}, []string{"daemon"}},
	} {
		if got := g.Complete(x.args...); !reflect.DeepEqual(got, x.want) {
			t.Errorf("%v: got %v want %v", x.args, got, x.want)
		}
	}
}

func TestHelp(t *testing.T) {
	g, _ := testGoes()
	if got, want := g.Help("echo"), "usage:\techo [STRING]..."; got != want {
		t.Errorf("got %q want %q", got, want)
	}
	if got := g.Help("goes-test"); !strings.HasPrefix(got, "usage:\tgoes COMMAND") {
		t.Errorf("self: got %q", got)
	}
}

func TestFman(t *testing.T) {
	var b bytes.Buffer
	Fman(&b, new(echo))
	want := "NAME\n\techo - print arguments\n\nSYNOPSIS\n" +
		"\techo [STRING]...\n\nDESCRIPTION\n\tPrints.\n"
	if got := b.String(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}
