// scout-recorder - frame-to-frame motion detection for the Scout edge camera
//  Copyright (C) 2024, The Scout Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/coreos/go-systemd/daemon"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"

	"github.com/scout-project/scout-recorder/frames"
	"github.com/scout-project/scout-recorder/motion"
	"github.com/scout-project/scout-recorder/pool"
	"github.com/scout-project/scout-recorder/throttle"
)

const (
	framesHz = 5 // approx

	frameLogIntervalFirstMin = 15 * framesHz
	frameLogInterval         = 60 * 5 * framesHz

	framesPerSdNotify = 5 * framesHz
)

var (
	version = "<not set>"

	// The D-Bus service calls into the processor from its own
	// goroutine; all access goes through processorMu.
	processorMu sync.Mutex
	processor   *motion.MotionProcessor

	statusMu  sync.Mutex
	lastEvent string
)

type Args struct {
	ConfigFile string `arg:"-c,--config" help:"path to configuration file"`
	Quick      bool   `arg:"-q,--quick" help:"don't cycle camera power on startup"`
	Timestamps bool   `arg:"-t,--timestamps" help:"include timestamps in log output"`
	TestFile   string `arg:"-f,--testfile" help:"run a recorded frame stream through the detector"`
	Verbose    bool   `arg:"-v,--verbose" help:"make logging more verbose"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.ConfigFile = "/etc/scout-recorder.yaml"
	arg.MustParse(&args)
	return args
}

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err)
	}
}

func runMain() error {
	args := procArgs()

	if !args.Timestamps {
		log.SetFlags(0) // Removes default timestamp flag
	}

	log.Printf("running version: %s", version)
	conf, err := ParseConfigFile(args.ConfigFile)
	if err != nil {
		return err
	}
	logConfig(conf)

	if args.TestFile != "" {
		conf.Motion.Verbose = args.Verbose
		results := NewPlaybackTester(conf).Detect(args.TestFile)
		log.Printf("Detected: %d/%d frames, filtered: %d, alloc failures: %d",
			results.detectedCount, results.frameCount, results.filteredCount, results.allocFailures)
		return nil
	}

	log.Println("starting d-bus service")
	if err := startService(); err != nil {
		return err
	}

	log.Println("host initialisation")
	if _, err := host.Init(); err != nil {
		return err
	}

	if !args.Quick {
		if err := cycleCameraPower(conf.PowerPin); err != nil {
			return err
		}
	}

	turret := NewTurretController(conf.Turret)
	if conf.Turret.Active {
		go turret.Start()
	}

	for {
		// Set up listener for frames sent by the camera bridge.
		os.Remove(conf.FrameInput)
		listener, err := net.Listen("unixpacket", conf.FrameInput)
		if err != nil {
			return err
		}
		log.Print("waiting for camera connection")

		conn, err := listener.Accept()
		if err != nil {
			log.Printf("socket accept failed: %v", err)
			continue
		}

		// Prevent concurrent connections.
		listener.Close()

		err = handleConn(conn, conf, turret)
		log.Printf("camera connection ended with: %v", err)
	}
}

func handleConn(conn net.Conn, conf *Config, turret *TurretController) error {
	alloc := pool.NewFallback(pool.NewBounded(conf.FastPoolMB<<20), pool.Heap{})

	var listener motion.DetectionListener = new(statusListener)
	if conf.Throttler.ApplyThrottling {
		listener = throttle.NewThrottledListener(listener, &conf.Throttler)
	}

	p := motion.NewMotionProcessor(conf.Motion, listener, alloc)
	setProcessor(p)
	defer setProcessor(nil)

	log.Print("new camera connection, reading frames")

	frame := new(frames.Frame)
	totalFrames := 0
	notifyCount := 0
	for {
		if err := frames.ReadFrame(conn, frame); err != nil {
			return err
		}
		totalFrames++

		if totalFrames%frameLogIntervalFirstMin == 0 &&
			totalFrames <= 60*framesHz || totalFrames%frameLogInterval == 0 {
			log.Printf("%d frames for this connection", totalFrames)
		}

		if notifyCount++; notifyCount >= framesPerSdNotify {
			daemon.SdNotify(false, "WATCHDOG=1")
			notifyCount = 0
		}

		processorMu.Lock()
		result := p.Detect(frame)
		processorMu.Unlock()

		if result.Detected && conf.Turret.Active {
			turret.Track(result, int(frame.Width), int(frame.Height))
		}
	}
}

func setProcessor(p *motion.MotionProcessor) {
	processorMu.Lock()
	processor = p
	processorMu.Unlock()
}

// statusListener keeps a line describing the most recent detection
// event for the D-Bus Status method.
type statusListener struct{}

func (*statusListener) MotionDetected(result motion.MotionResult) {
	setLastEvent(fmt.Sprintf("detected at %s: box (%d,%d) %dx%d, size %.1f%%, confidence %.2f",
		time.Now().Format(time.RFC3339),
		result.X, result.Y, result.Width, result.Height,
		result.SizePercent, result.Confidence))
}

func (*statusListener) MotionFiltered(result motion.MotionResult) {
	setLastEvent(fmt.Sprintf("filtered at %s: size %.1f%%",
		time.Now().Format(time.RFC3339), result.SizePercent))
}

func (*statusListener) AllocationFailed(size int) {
	setLastEvent(fmt.Sprintf("allocation of %d bytes failed at %s",
		size, time.Now().Format(time.RFC3339)))
}

func setLastEvent(s string) {
	statusMu.Lock()
	lastEvent = s
	statusMu.Unlock()
}

func getLastEvent() string {
	statusMu.Lock()
	defer statusMu.Unlock()
	if lastEvent == "" {
		return "no events yet"
	}
	return lastEvent
}

func logConfig(conf *Config) {
	log.Printf("device name: %s", conf.DeviceName)
	log.Printf("frame input: %s", conf.FrameInput)
	log.Printf("power pin: %s", conf.PowerPin)
	log.Printf("fast pool: %d MB", conf.FastPoolMB)
	log.Printf("motion: %+v", conf.Motion)
	log.Printf("throttler: %+v", conf.Throttler)
	if conf.Turret.Active {
		log.Printf("turret active")
		log.Printf("\tPID: %v", conf.Turret.PID)
		log.Printf("\tServoX: %+v", conf.Turret.ServoX)
		log.Printf("\tServoY: %+v", conf.Turret.ServoY)
	}
}

func cycleCameraPower(pinName string) error {
	if pinName == "" {
		return nil
	}

	pin := gpioreg.ByName(pinName)

	log.Print("turning camera power off")
	if err := pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to set camera power pin low: %v", err)
	}
	time.Sleep(2 * time.Second)

	log.Print("turning camera power on")
	if err := pin.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to set camera power pin high: %v", err)
	}

	log.Print("waiting for camera startup")
	time.Sleep(8 * time.Second)
	log.Print("camera should be ready")
	return nil
}
