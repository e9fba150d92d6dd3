package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	dxl "github.com/adammck/dynamixel/network"
	"github.com/jacobsa/go-serial/serial"
	log "github.com/sirupsen/logrus"

	stewart "github.com/Linc-hub/StewartSim"
	"github.com/Linc-hub/StewartSim/components/console"
	"github.com/Linc-hub/StewartSim/components/motion"
	"github.com/Linc-hub/StewartSim/config"
	fakeinput "github.com/Linc-hub/StewartSim/fake/input"
	"github.com/Linc-hub/StewartSim/input"
	"github.com/Linc-hub/StewartSim/kinematics"
	"github.com/Linc-hub/StewartSim/render"
	"github.com/Linc-hub/StewartSim/servos"
	"github.com/Linc-hub/StewartSim/trajectory"
)

var (
	configPath = flag.String("config", "", "platform config file (JSON); built-in circular layout if empty")
	portName   = flag.String("port", "", "serial port of the servo bus; run without actuation if empty")
	controller = flag.String("controller", "", "controller event device, e.g. /dev/input/event0")
	fps        = flag.Int("fps", 50, "ticks per second")
	program    = flag.String("program", "", "initial motion program")
	pathText   = flag.String("path", "", "register a path program from this path string and start it")
	snapshot   = flag.String("snapshot", "", "write a top-view PNG here on shutdown")
	debug      = flag.Bool("debug", false, "verbose logging and serial traffic")
)

func main() {
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		cfg = c
	}

	geom, err := cfg.Build()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	log.Infof("built %s platform, neutral height %.2f", cfg.Layout, geom.NeutralHeight)

	solver := kinematics.NewSolver(geom)

	// Open and connect the controller, if present.
	var source input.Source = fakeinput.Static{}
	if *controller != "" {
		f, err := os.Open(*controller)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		sa := input.NewSixaxis(f)
		go sa.Run()
		source = sa
	}

	var sink render.Sink = render.Nop{}
	var snap *render.Snapshot
	if *snapshot != "" {
		snap = render.NewSnapshot(512, 2)
		sink = snap
	}

	// Open the servo bus, if present.
	var actuator motion.Actuator
	var pool *servos.Pool
	if *portName != "" {
		s, err := serial.Open(serial.OpenOptions{
			PortName:              *portName,
			BaudRate:              1000000,
			DataBits:              8,
			StopBits:              1,
			MinimumReadSize:       0,
			InterCharacterTimeout: 100,
		})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		n := dxl.New(s)
		if *debug {
			n.Logger = log.StandardLogger()
		}

		pool, err = servos.NewPool(n, []int{1, 2, 3, 4, 5, 6})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		actuator = pool
	}

	m := motion.New(solver, source, sink, actuator)

	if *pathText != "" {
		const id = motion.ProgramID("path")
		box := trajectory.Box{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
		if err := m.RegisterPath(id, *pathText, box, 80); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		m.Start(string(id))
	}

	if *program != "" {
		m.Start(*program)
	}

	p := stewart.NewPlatform()
	p.Add(m)
	if *controller != "" {
		p.Add(console.New(source, m))
	}

	if err := p.Boot(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	// Catch both SIGINT (ctrl+c) and SIGTERM (kill/systemd), to allow the
	// platform to power down its servos before exiting.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("Halting")
		p.State.Shutdown = true

		time.Sleep(3 * time.Second)
		os.Exit(2)
	}()

	log.Info("starting main loop")
	p.MainLoop(time.Second / time.Duration(*fps))

	if pool != nil {
		pool.Shutdown()
	}

	if snap != nil {
		if err := snap.Save(*snapshot); err != nil {
			fmt.Println(err)
		}
	}
}
