// Command eyeriss drives one convolution run end to end: it reads an XML
// template describing PE/ifmap/kernel/stride geometry, synthesizes
// deterministic test matrices to that geometry, runs the convolution, and
// writes the resulting counters back into the template.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/DerekYu177/eyeriss-model/accelerator"
	"github.com/DerekYu177/eyeriss-model/testmatrix"
	"github.com/DerekYu177/eyeriss-model/xmltemplate"
	"github.com/tebeka/atexit"
)

func main() {
	templatePath := flag.String("template", "template.xml", "input XML template describing run geometry")
	outputPath := flag.String("output", "output_filled.xml", "output XML file to write counters into")
	flag.Parse()

	tpl, err := xmltemplate.Read(*templatePath)
	if err != nil {
		log.Fatalf("failed to read template: %v", err)
	}

	kernel := testmatrix.Create(0, 1, tpl.ConvLayer.FilterWidth, tpl.ConvLayer.FilterHeight, tpl.ConvLayer.FilterWidth)
	ifmap := testmatrix.Create(0, 1, tpl.ConvLayer.IfmapWidth, tpl.ConvLayer.IfmapHeight, tpl.ConvLayer.IfmapWidth)

	acc := accelerator.NewBuilder().
		WithDimensions(tpl.PEArray.Width, tpl.PEArray.Height).
		WithStride(tpl.ConvLayer.StrideHeight, tpl.ConvLayer.StrideWidth).
		Build()

	acc.SetKernel(kernel)
	acc.SetIfmap(ifmap)

	if !acc.Conv() {
		log.Fatal("conv() returned false: kernel or ifmap was never set")
	}

	tpl.WriteCounters(acc.Counters())

	if err := tpl.Save(*outputPath); err != nil {
		log.Fatalf("failed to save output template: %v", err)
	}

	fmt.Printf("wrote counters to %s\n", *outputPath)
	atexit.Exit(0)
}
