// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package acpuclockd scales the application processor clock on request
// through redis.
package acpuclockd

import (
	"fmt"
	"net/rpc"
	"strconv"
	"sync"
	"time"

	"github.com/platinasystems/acpuclock/goes/cmd"
	"github.com/platinasystems/acpuclock/goes/lang"
	"github.com/platinasystems/acpuclock/internal/acpuclock"
	"github.com/platinasystems/acpuclock/internal/board"
	"github.com/platinasystems/acpuclock/internal/catalog"
	"github.com/platinasystems/acpuclock/internal/clkctl"
	"github.com/platinasystems/acpuclock/internal/opp"
	"github.com/platinasystems/atsock"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/redis"
	"github.com/platinasystems/redis/publisher"
	"github.com/platinasystems/redis/rpc/args"
	"github.com/platinasystems/redis/rpc/reply"
)

const (
	Name   = "acpuclockd"
	Prefix = "acpuclock."

	KHz          = Prefix + "khz"
	Lpj          = Prefix + "lpj"
	Frequencies  = Prefix + "frequencies"
	SwitchTimeUs = Prefix + "switch_time_us"
	Vdd          = Prefix + "vdd"
	VddReset     = Prefix + "vdd.reset"
	Table        = Prefix + "table"
	VariantName  = Prefix + "variant"
	Suboptimal   = Prefix + "suboptimal"
)

// The boot loader leaves the simulated SoC here.
var (
	simPLLs      = [opp.NPLL]uint32{245760, 960000, 1200000}
	simBootKHz   = uint32(245760)
	simBootLoops = uint64(1228800)
)

type Command struct {
	Info
	Init func()
	init sync.Once
}

type Info struct {
	mutex sync.Mutex
	rpc   *atsock.RpcServer
	pub   *publisher.Publisher
	stop  chan struct{}
	ctl   *acpuclock.Controller
	last  map[string]string
}

func (*Command) String() string { return Name }

func (*Command) Usage() string {
	return Name + " [-sim] [-dtb FILE] [-catalog FILE] [-lpj N]"
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "application processor clock daemon",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Selects the operating point table of the measured PLLs, adopts the
	boot loader's point, then serves frequency and voltage requests.

OPTIONS
	-sim		run on a simulated clock controller
	-dtb FILE	board device tree (default ` + board.DefaultDTB + `)
	-catalog FILE	YAML table catalog instead of the built-in tables
	-lpj N		loops per jiffy calibrated at the boot point

FIELDS
	` + KHz + `		present frequency, hset to request another
	` + Vdd + `		voltage levels per point, hset to override
	` + VddReset + `	hset to restore the table voltages
	` + Frequencies + `	scalable frequencies
	` + Table + `		KHZ:PLL:BUSKHZ:MV:SCALABLE per point`,
	}
}

func (*Command) Kind() cmd.Kind { return cmd.Daemon }

func (c *Command) Main(args ...string) error {
	if c.Init != nil {
		c.init.Do(c.Init)
	}
	c.stop = make(chan struct{})
	c.last = make(map[string]string)

	flag, args := flags.New(args, "-sim")
	parm, args := parms.New(args, "-dtb", "-catalog", "-lpj")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	if len(parm.ByName["-dtb"]) == 0 {
		parm.ByName["-dtb"] = board.DefaultDTB
	}

	err := redis.IsReady()
	if err != nil {
		return err
	}

	cfg, err := board.Load(parm.ByName["-dtb"])
	if err != nil {
		return err
	}

	var variants []catalog.Variant
	if fn := parm.ByName["-catalog"]; len(fn) > 0 {
		if variants, err = catalog.LoadFile(fn); err != nil {
			return err
		}
	}

	lpj := simBootLoops
	if s := parm.ByName["-lpj"]; len(s) > 0 {
		if lpj, err = strconv.ParseUint(s, 0, 64); err != nil {
			return fmt.Errorf("-lpj: %w", err)
		}
	}

	var hw acpuclock.Hardware
	if flag.ByName["-sim"] {
		hw, err = simHardware(cfg, variants)
	} else {
		hw, err = socHardware(cfg)
	}
	if err != nil {
		return err
	}
	if hw.Bus == nil {
		hw.Bus = busClock(redis.DefaultHash)
	}

	c.ctl = acpuclock.New(cfg, hw, variants)
	if err = c.ctl.Init(lpj); err != nil {
		return err
	}

	if c.pub, err = publisher.New(); err != nil {
		return err
	}
	defer c.pub.Close()

	if c.rpc, err = atsock.NewRpcServer(Name); err != nil {
		return err
	}
	defer c.rpc.Close()

	rpc.Register(&c.Info)
	err = redis.Assign(redis.DefaultHash+":"+Prefix, Name, "Info")
	if err != nil {
		return err
	}

	c.mutex.Lock()
	c.publishAll()
	for _, msg := range c.ctl.Stepping().Suboptimal {
		c.publish(Suboptimal, msg)
	}
	c.mutex.Unlock()

	t := time.NewTicker(10 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return nil
		case <-t.C:
			c.mutex.Lock()
			c.publishAll()
			c.mutex.Unlock()
		}
	}
}

func (c *Command) Close() error {
	close(c.stop)
	return nil
}

func socHardware(cfg *board.Config) (acpuclock.Hardware, error) {
	m, err := clkctl.OpenMMIO(cfg.RegBase)
	if err != nil {
		return acpuclock.Hardware{}, err
	}
	var regs clkctl.Registers = m
	if cfg.PMICAddr != 0 {
		regs = &clkctl.PMIC{
			Registers: m,
			Bus:       cfg.PMICBus,
			Addr:      cfg.PMICAddr,
			Reg:       cfg.PMICReg,
			MV:        cfg.VddMV,
		}
	}
	return acpuclock.Hardware{
		Regs: regs,
		PLLs: &clkctl.RegPLLs{
			Registers: m,
			Timeout:   cfg.PLLLockTimeout,
		},
	}, nil
}

func simHardware(cfg *board.Config, variants []catalog.Variant) (acpuclock.Hardware, error) {
	if variants == nil {
		variants = catalog.Builtin
	}
	sim := clkctl.NewSim(simPLLs)
	for _, v := range variants {
		for i := range v.Points {
			p := v.Points[i]
			if p.KHz != simBootKHz {
				continue
			}
			if int(p.VddLevel) >= len(cfg.VddMV) {
				break
			}
			if err := sim.Boot(&p, p.VddLevel); err != nil {
				return acpuclock.Hardware{}, err
			}
			log.Print("daemon", "info", "simulating ", v.Name, " at ",
				p.KHz, " kHz")
			return acpuclock.Hardware{
				Regs: sim,
				PLLs: sim,
				Bus:  sim,
			}, nil
		}
	}
	return acpuclock.Hardware{}, fmt.Errorf("%w: no %d kHz boot point",
		opp.ErrConfiguration, simBootKHz)
}

func (c *Command) publishAll() {
	c.publish(KHz, c.ctl.CurrentKHz())
	c.publish(Lpj, c.ctl.LoopConstant())
	c.publish(Frequencies, acpuclock.FormatFrequencies(c.ctl.Frequencies()))
	c.publish(SwitchTimeUs, c.ctl.SwitchTime().Microseconds())
	c.publish(Vdd, acpuclock.FormatLevels(c.ctl.VddLevels()))
	c.publish(Table, acpuclock.FormatEntries(c.ctl.Entries()))
	c.publish(VariantName, c.ctl.Variant())
}

func (i *Info) Hset(args args.Hset, reply *reply.Hset) error {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	if i.ctl == nil {
		return acpuclock.ErrNotReady
	}
	err := i.set(args.Field, string(args.Value))
	if err != nil {
		log.Print("daemon", "err", args.Field, ": ", err)
		return err
	}
	*reply = 1
	i.publish(KHz, i.ctl.CurrentKHz())
	i.publish(Lpj, i.ctl.LoopConstant())
	i.publish(Vdd, acpuclock.FormatLevels(i.ctl.VddLevels()))
	i.publish(Table, acpuclock.FormatEntries(i.ctl.Entries()))
	return nil
}

func (i *Info) set(field, value string) error {
	switch field {
	case KHz:
		khz, err := acpuclock.ParseKHz(value)
		if err != nil {
			return err
		}
		return i.ctl.SetRate(khz, acpuclock.Governor)
	case Vdd:
		levels, err := acpuclock.ParseLevels(value)
		if err != nil {
			return err
		}
		return i.ctl.SetVddLevels(levels)
	case VddReset:
		return i.ctl.ResetVddLevels()
	}
	return fmt.Errorf("cannot hset: %s", field)
}

// publish prints changed values only.
func (i *Info) publish(key string, value interface{}) {
	s := fmt.Sprint(value)
	if key != Suboptimal && i.last[key] == s {
		return
	}
	i.last[key] = s
	i.pub.Print(key, ": ", s)
}
