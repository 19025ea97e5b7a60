package client_test

import (
	"context"
	"fmt"

	"github.com/daniacca/radsim/pkg/client"
)

func ExampleSceneBuilder() {
	scene := client.NewScene("shielding-study").
		Ambient(client.PureMixture("Air")).
		Volume(client.NewVolume("source").
			Position(0, 0, 0).
			Extents(0.1, 0.1, 0.1).
			Mixture(client.PureMixture("Pu-239"))).
		Volume(client.NewVolume("shield").
			Position(0.5, 0, 0).
			Extents(0.05, 1, 1).
			Mixture(client.PureMixture("Pb-208"))).
		Volume(client.NewVolume("target").
			Position(1, 0, 0).
			Extents(0.3, 0.3, 0.3).
			Mixture(client.PureMixture("Water")))

	cfg := scene.Build()
	fmt.Printf("Scene: %s\n", cfg.Name)
	fmt.Printf("Volumes: %d\n", len(cfg.Volumes))

	// Example: Apply to server (commented out for test)
	// ctx := context.Background()
	// err := client.ApplyScene(ctx, "http://localhost:8080", "study-1", scene)
	// if err != nil {
	// 	log.Fatal(err)
	// }
	_ = scene

	// Output:
	// Scene: shielding-study
	// Volumes: 3
}

func ExampleApplyScene() {
	ctx := context.Background()
	scene := client.NewScene("test").
		Ambient(client.PureMixture("Air"))

	// This would send the scene to the server
	// Uncomment to actually send:
	// err := client.ApplyScene(ctx, "http://localhost:8080", "test-sim", scene)
	// if err != nil {
	// 	log.Fatal(err)
	// }

	_ = ctx
	_ = scene
}

func ExampleEmitterBuilder() {
	scene := client.NewScene("beam-test").
		Ambient(client.PureMixture("Vacuum")).
		Volume(client.NewVolume("gun").
			Position(0, 0, 0).
			Extents(0.01, 0.01, 0.01).
			Mixture(client.PureMixture("Vacuum")).
			Emitter(client.NewEmitter(1.0e6).
				Beta(1e9).
				Gamma(1e8)))

	_ = scene
}
