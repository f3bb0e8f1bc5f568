// restraining-bolt supervises an ArduPilot ground rover over a MAVLink
// serial link. It watches heartbeat liveness, GPS fix quality and waypoint
// progress, and on a hazard it commands the rover back to a safe mode, drops
// the power relay and raises the alarm relay.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff"

	"github.com/bitdog-io/restraining-bolt/internal/core"
)

func main() {
	fs := flag.NewFlagSet("restraining-bolt", flag.ExitOnError)
	cfgPath := fs.String("config", "configs/config.yml", "path to YAML configuration")
	_ = ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix())

	system, err := core.NewSystem(*cfgPath)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	system.StartAll()
	log.Printf("restraining-bolt running, config=%s", *cfgPath)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	system.StopAll()
}
