package pph_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/pph"
)

// Example_basic adds a to-do and reads it back from a fresh hub.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "pph-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	h, err := pph.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := h.AddTodo(ctx, "  Buy milk "); err != nil {
		log.Fatal(err)
	}

	again, err := pph.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	for _, t := range again.Todos() {
		fmt.Printf("%s (done: %v)\n", t.Text, t.Completed)
	}
	// Output:
	// Buy milk (done: false)
}

// Example_memory keeps everything in memory.
func Example_memory() {
	h, err := pph.New("", pph.WithAdapter(pph.AdapterMemory))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	_ = h.AddLink(ctx, "", "https://example.com")
	_ = h.SwitchTab(ctx, "links")

	fmt.Println(h.Links()[0].Title)
	fmt.Println(h.Document().ActiveTab)
	// Output:
	// https://example.com
	// links
}
