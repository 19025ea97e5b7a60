// Demo client driving a running radsim server. It applies a lead
// shielding scene, advances the simulation and prints the dose picked
// up by each volume.
//
// Start the server first:
//
//	go run ./cmd/radsim-server
//
// Then run the demo:
//
//	go run ./cmd/demo -url http://localhost:8080
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/daniacca/radsim/pkg/client"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "radsim server base URL")
	simID := flag.String("sim-id", "shielding-demo", "simulation ID to create or replace")
	ticks := flag.Int("ticks", 200, "number of ticks to run")
	flag.Parse()

	scene := client.NewScene("shielding-demo").
		Ambient(client.PureMixture("Air")).
		Volume(client.NewVolume("source").
			Position(0, 0, 0).
			Extents(0.05, 0.05, 0.05).
			Mixture(client.PureMixture("Pu-239"))).
		Volume(client.NewVolume("shield").
			Position(0.5, -0.5, -0.5).
			Extents(0.05, 1, 1).
			Mixture(client.PureMixture("Pb-208"))).
		Volume(client.NewVolume("target").
			Position(1, -0.15, -0.15).
			Extents(0.3, 0.3, 0.3).
			Mixture(client.PureMixture("Water")))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := client.ApplyScene(ctx, *baseURL, *simID, scene); err != nil {
		log.Fatalf("apply scene: %v", err)
	}
	fmt.Printf("Scene applied to simulation %q\n", *simID)

	for i := 0; i < *ticks; i++ {
		if err := client.Tick(ctx, *baseURL, *simID); err != nil {
			log.Fatalf("tick %d: %v", i+1, err)
		}
	}

	status, err := client.Status(ctx, *baseURL, *simID)
	if err != nil {
		log.Fatalf("status: %v", err)
	}
	fmt.Printf("Tick %d, %.3e s simulated, %d particles in flight\n",
		status.Tick, status.ElapsedSeconds, status.ParticleCount)

	doses, err := client.Doses(ctx, *baseURL, *simID)
	if err != nil {
		log.Fatalf("doses: %v", err)
	}
	fmt.Println("Absorbed dose per volume:")
	for _, d := range doses {
		fmt.Printf("  %s: %.6e eV\n", d.Name, d.DoseEV)
	}
}
