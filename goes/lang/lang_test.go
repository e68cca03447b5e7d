// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package lang

import "testing"

var hello = Alt{
	EnUS: "hello",
	FrFR: "bonjour",
	JaJP: "こんにちは",
	ZhCN: "你好",
}

func Test(t *testing.T) {
	defer func(lang string) { Lang = lang }(Lang)
	for lang, want := range hello {
		Lang = lang
		if got := hello.String(); got != want {
			t.Fatalf("%s: got %q want %q", lang, got, want)
		}
	}
	Lang = DeDE
	if got, want := hello.String(), hello[EnUS]; got != want {
		t.Errorf("fallback: got %q want %q", got, want)
	}
	if got := (Alt{FrFR: "bonjour"}).String(); got != "" {
		t.Errorf("no match: got %q", got)
	}
}
