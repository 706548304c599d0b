/*
DESCRIPTION
  breathcam is a standalone breathing-rate monitor: it watches a video
  file or camera for motion, adaptively crops to a region of interest,
  estimates breathing rate via Eulerian/Riesz-pyramid video
  magnification, and raises an alarm if motion stops.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is the breathcam CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/breathcam/config"
	"github.com/ausocean/breathcam/monitor"
	"github.com/ausocean/utils/logging"
)

const version = "v0.1.0"

const (
	logPath      = "breathcam.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

const pkg = "breathcam: "

func main() {
	showVersion := flag.Bool("version", false, "show version")
	showAbout := flag.Bool("about", false, "show program name, version and description")
	configPath := flag.String("config", "breathcam.conf", "path to configuration file")
	chartPath := flag.String("chart", "", "if set, write a breathing-rate strip chart PNG to this path on exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if *showAbout {
		fmt.Println("breathcam " + version)
		fmt.Println("Real-time breathing-rate monitor via Eulerian/Riesz-pyramid video magnification.")
		os.Exit(0)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)
	log.Info(pkg+"starting breathcam", "version", version)

	vars, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatal(pkg+"could not load config", "error", err.Error())
	}

	c := config.Config{Logger: log}
	c.Update(vars)
	if err := c.Validate(); err != nil {
		log.Fatal(pkg+"invalid config", "error", err.Error())
	}

	m, err := monitor.New(c)
	if err != nil {
		log.Fatal(pkg+"could not create monitor", "error", err.Error())
	}

	if err := m.Start(); err != nil {
		log.Fatal(pkg+"could not start monitor", "error", err.Error())
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-m.Errors():
		log.Error(pkg+"monitor stopped with error", "error", err.Error())
	case <-sig:
		log.Info(pkg + "received interrupt, shutting down")
	}

	m.Stop()

	if *chartPath != "" {
		if err := m.Recorder().WriteChart(*chartPath); err != nil {
			log.Error(pkg+"could not write telemetry chart", "error", err.Error())
		}
	}

	log.Info(pkg + "stopped")
}
