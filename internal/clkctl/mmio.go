// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package clkctl

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

const DevMem = "/dev/mem"

// MMIO is the controller register window mapped from physical memory.
type MMIO struct {
	f   *os.File
	mem []byte
}

// OpenMMIO maps Size bytes of physical memory at base, which must be page
// aligned.
func OpenMMIO(base int64) (*MMIO, error) {
	if base%int64(os.Getpagesize()) != 0 {
		return nil, fmt.Errorf("%#x: unaligned register base", base)
	}
	f, err := os.OpenFile(DevMem, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	mem, err := unix.Mmap(int(f.Fd()), base, Size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %#x: %v", base, err)
	}
	return &MMIO{f: f, mem: mem}, nil
}

func (m *MMIO) addr(reg Reg) (*uint32, error) {
	if m.mem == nil {
		return nil, os.ErrClosed
	}
	if reg%4 != 0 || int(reg)+4 > len(m.mem) {
		return nil, fmt.Errorf("%v: outside register window", reg)
	}
	return (*uint32)(unsafe.Pointer(&m.mem[reg])), nil
}

func (m *MMIO) Read(reg Reg) (uint32, error) {
	p, err := m.addr(reg)
	if err != nil {
		return 0, err
	}
	return atomic.LoadUint32(p), nil
}

func (m *MMIO) Write(reg Reg, v uint32) error {
	p, err := m.addr(reg)
	if err != nil {
		return err
	}
	atomic.StoreUint32(p, v)
	return nil
}

func (m *MMIO) Close() error {
	if m.mem == nil {
		return nil
	}
	err := unix.Munmap(m.mem)
	m.mem = nil
	if t := m.f.Close(); err == nil {
		err = t
	}
	return err
}
