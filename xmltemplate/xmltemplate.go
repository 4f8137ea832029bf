// Package xmltemplate reads and writes the XML template a driver uses to
// describe a run's PE/ifmap/kernel/stride geometry and to carry the
// resulting per-tier counters back out.
package xmltemplate

import (
	"encoding/xml"
	"os"

	"github.com/DerekYu177/eyeriss-model/costtracker"
)

// Template is the root document: PE array geometry, and the convolution
// layer's ifmap/filter/stride geometry plus (once a run has completed) its
// counters. The fully-connected layer section the original format carries is
// out of scope and is neither parsed nor written.
type Template struct {
	XMLName   xml.Name  `xml:"eyeriss"`
	PEArray   PEArray   `xml:"pe_array"`
	ConvLayer ConvLayer `xml:"conv_layer"`
}

// PEArray describes the PE grid's shape.
type PEArray struct {
	Height int `xml:"pe_height"`
	Width  int `xml:"pe_width"`
}

// ConvLayer describes the convolution's geometry on input, and carries the
// per-tier counters on output. There are no GLB fields: GLB elements in a
// template are ignored on read and are not written back.
type ConvLayer struct {
	IfmapHeight  int `xml:"ifmap_height"`
	IfmapWidth   int `xml:"ifmap_width"`
	FilterHeight int `xml:"filter_height"`
	FilterWidth  int `xml:"filter_width"`
	StrideHeight int `xml:"stride_height"`
	StrideWidth  int `xml:"stride_width"`

	DRAMRead   int `xml:"dram_read"`
	DRAMWrite  int `xml:"dram_write"`
	IPERead    int `xml:"ipe_read"`
	IPEWrite   int `xml:"ipe_write"`
	SpadRead   int `xml:"spad_read"`
	SpadWrite  int `xml:"spad_write"`
	Add        int `xml:"add"`
	Mult       int `xml:"mult"`
}

// Read parses a template from path.
func Read(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var t Template
	if err := xml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// WriteCounters copies a grid-wide counter snapshot into the conv_layer
// section, following the original's internal-signal-to-tag mapping:
// total_dram_reads -> dram_read, total_dram_writes -> dram_write,
// total_ipe_reads -> ipe_read, total_ipe_writes -> ipe_write,
// total_spad_reads -> spad_read, total_spad_writes -> spad_write,
// add_operations -> add, mult_operations -> mult.
func (t *Template) WriteCounters(c costtracker.Counters) {
	t.ConvLayer.DRAMRead = c.DRAMReads
	t.ConvLayer.DRAMWrite = c.DRAMWrites
	t.ConvLayer.IPERead = c.IPEReads
	t.ConvLayer.IPEWrite = c.IPEWrites
	t.ConvLayer.SpadRead = c.SpadReads
	t.ConvLayer.SpadWrite = c.SpadWrites
	t.ConvLayer.Add = c.Add
	t.ConvLayer.Mult = c.Mult
}

// Save marshals the template back to path, indented for readability.
func (t *Template) Save(path string) error {
	data, err := xml.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	data = append([]byte(xml.Header), data...)
	return os.WriteFile(path, data, 0o644)
}
