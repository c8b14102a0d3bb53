package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/indebetouw/hyperion/model"
	"github.com/indebetouw/hyperion/rtio"
)

func main() {
	var (
		setupFile     string
		output        string
		exampleConfig bool
	)

	flag.StringVar(
		&setupFile, "Setup", "",
		"Model setup file to assemble and write.",
	)
	flag.StringVar(
		&output, "Output", "",
		"Output file. Defaults to '<model name>.rtin'.",
	)
	flag.BoolVar(
		&exampleConfig, "ExampleConfig", false,
		"Prints an example setup file to stdout.",
	)

	flag.Parse()

	if exampleConfig {
		fmt.Println(model.ExampleSetupFile)
		return
	}
	if setupFile == "" {
		log.Fatal("Must supply a setup file via -Setup. " +
			"See -ExampleConfig for the format.")
	}

	m, err := model.LoadSetup(setupFile)
	if err != nil {
		log.Fatal(err.Error())
	}

	if err := rtio.Write(m, output); err != nil {
		log.Fatal(err.Error())
	}

	if output == "" {
		output = m.Name + ".rtin"
	}
	log.Printf("Wrote %s", output)
}
