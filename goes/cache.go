// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"sort"
	"sync"
)

type cache struct {
	sync.Mutex

	builtins map[string]func(...string) error
	names    []string
}

func (g *Goes) Builtins() map[string]func(...string) error {
	g.cache.Lock()
	defer g.cache.Unlock()
	if len(g.cache.builtins) == 0 {
		g.cache.builtins = map[string]func(...string) error{
			"apropos":  g.apropos,
			"complete": g.complete,
			"help":     g.help,
			"man":      g.man,
			"usage":    g.usage,
		}
	}
	return g.cache.builtins
}

// Names returns the sorted command names.
func (g *Goes) Names() []string {
	g.cache.Lock()
	defer g.cache.Unlock()
	if len(g.cache.names) != len(g.ByName) {
		g.cache.names = g.cache.names[:0]
		for k := range g.ByName {
			g.cache.names = append(g.cache.names, k)
		}
		sort.Strings(g.cache.names)
	}
	return g.cache.names
}
