// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package main

import (
	"reflect"
	"testing"

	"github.com/platinasystems/acpuclock/goes/cmd"
)

func TestMkgoes(t *testing.T) {
	g := mkgoes()
	if got, want := g.Names(), []string{"acpuclockd", "cpufreq"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("names: got %v want %v", got, want)
	}
	if !cmd.WhatKind(g.ByName["acpuclockd"]).IsDaemon() {
		t.Error("acpuclockd isn't a daemon")
	}
	if !cmd.WhatKind(g.ByName["cpufreq"]).IsInteractive() {
		t.Error("cpufreq isn't interactive")
	}
	if got, want := g.Complete("cpu"), []string{"cpufreq"}; !reflect.DeepEqual(got, want) {
		t.Errorf("complete: got %v want %v", got, want)
	}
}
