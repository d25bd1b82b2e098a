package verdant_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/growmygarden/verdant"
)

// Example_basic demonstrates opening a Garden, saving a plant, and
// observing it on the live view.
func Example_basic() {
	// Create a temporary directory for the example
	tmpDir, err := os.MkdirTemp("", "verdant-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()

	// Open the application core. The short debounce keeps the example
	// snappy; real apps keep the default.
	g, err := verdant.Open(ctx, tmpDir, verdant.WithDebounce(10*time.Millisecond))
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close(ctx)

	// 1. Subscribe to the live view before writing.
	snapshots, err := g.Plants().Plants(ctx)
	if err != nil {
		log.Fatal(err)
	}
	<-snapshots // initial snapshot, empty

	// 2. Save a plant. Saves are asynchronous; the live view delivers
	// a fresh snapshot once the write lands.
	ficus := verdant.NewPlant("Ficus")
	ficus.WateringEvery = 72 * time.Hour
	g.Plants().Save(ficus)

	for plants := range snapshots {
		if len(plants) == 0 {
			continue
		}
		fmt.Printf("Tracking: %s\n", plants[0].Name)
		break
	}
	// Output:
	// Tracking: Ficus
}
