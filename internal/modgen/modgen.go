// Package modgen synthesizes tiny core WASM modules that exercise host
// functions: a linear memory, optional seeded data, and an exported "run"
// function calling imports with constant arguments. Building guests in Go
// keeps the binding tests and examples free of toolchain fixtures.
package modgen

const (
	sectionType     = 0x01
	sectionImport   = 0x02
	sectionFunction = 0x03
	sectionMemory   = 0x05
	sectionExport   = 0x07
	sectionCode     = 0x0A
	sectionData     = 0x0B

	funcTypeTag = 0x60
	valTypeI32  = 0x7F

	opI32Const = 0x41
	opCall     = 0x10
	opEnd      = 0x0B

	exportFunc   = 0x00
	exportMemory = 0x02

	pageSize = 65536
)

// Import declares one imported host function. Parameters are all i32 and
// there are no results; that covers every shape the loan tests drive.
type Import struct {
	Module string
	Name   string
	Params int
}

// Step is one call in the generated run body.
type Step struct {
	// Import indexes into Config.Imports.
	Import int
	// Args are passed as i32 constants and must match the import's arity.
	Args []uint32
}

// Config describes the module to synthesize.
type Config struct {
	Imports []Import
	// MemoryPages is the minimum memory size. Zero means one page, or
	// however many the data segment needs.
	MemoryPages uint32
	// Data is copied into memory at DataOffset during instantiation.
	Data       []byte
	DataOffset uint32
	// OmitMemory drops the memory section entirely, for binding tests that
	// need a guest without linear memory. Incompatible with Data.
	OmitMemory bool
	// Steps form the body of the exported "run" function.
	Steps []Step
}

// Build encodes cfg as a core module binary. The module exports its memory
// as "memory" and its driver function as "run". Malformed configs panic:
// the generator's only callers are tests, and a bad config is a test bug.
func Build(cfg Config) []byte {
	for _, step := range cfg.Steps {
		if step.Import < 0 || step.Import >= len(cfg.Imports) {
			panic("modgen: step references unknown import")
		}
		if len(step.Args) != cfg.Imports[step.Import].Params {
			panic("modgen: step arity does not match import " + cfg.Imports[step.Import].Name)
		}
	}
	if cfg.OmitMemory && len(cfg.Data) > 0 {
		panic("modgen: data segment requires a memory")
	}

	w := newWriter()
	w.WriteBytes([]byte{0x00, 0x61, 0x73, 0x6D}) // \0asm
	w.WriteBytes([]byte{0x01, 0x00, 0x00, 0x00}) // version 1

	// Type section: one signature per import, then ()->() for run
	sec := newWriter()
	sec.WriteU32(uint32(len(cfg.Imports)) + 1)
	for _, imp := range cfg.Imports {
		sec.Byte(funcTypeTag)
		sec.WriteU32(uint32(imp.Params))
		for i := 0; i < imp.Params; i++ {
			sec.Byte(valTypeI32)
		}
		sec.WriteU32(0)
	}
	sec.Byte(funcTypeTag)
	sec.WriteU32(0)
	sec.WriteU32(0)
	writeSection(w, sectionType, sec.Bytes())

	// Import section
	if len(cfg.Imports) > 0 {
		sec = newWriter()
		sec.WriteU32(uint32(len(cfg.Imports)))
		for i, imp := range cfg.Imports {
			sec.WriteName(imp.Module)
			sec.WriteName(imp.Name)
			sec.Byte(exportFunc)
			sec.WriteU32(uint32(i))
		}
		writeSection(w, sectionImport, sec.Bytes())
	}

	// Function section: run uses the last type
	runType := uint32(len(cfg.Imports))
	sec = newWriter()
	sec.WriteU32(1)
	sec.WriteU32(runType)
	writeSection(w, sectionFunction, sec.Bytes())

	// Memory section: big enough for the data segment
	if !cfg.OmitMemory {
		sec = newWriter()
		sec.WriteU32(1)
		sec.Byte(0x00) // limits: min only
		sec.WriteU32(memoryPages(cfg))
		writeSection(w, sectionMemory, sec.Bytes())
	}

	// Export section: memory (when present) and run
	runIndex := uint32(len(cfg.Imports))
	sec = newWriter()
	if cfg.OmitMemory {
		sec.WriteU32(1)
	} else {
		sec.WriteU32(2)
		sec.WriteName("memory")
		sec.Byte(exportMemory)
		sec.WriteU32(0)
	}
	sec.WriteName("run")
	sec.Byte(exportFunc)
	sec.WriteU32(runIndex)
	writeSection(w, sectionExport, sec.Bytes())

	// Code section: run body calls each step in order
	body := newWriter()
	body.WriteU32(0) // no locals
	for _, step := range cfg.Steps {
		for _, arg := range step.Args {
			body.Byte(opI32Const)
			body.WriteS32(int32(arg))
		}
		body.Byte(opCall)
		body.WriteU32(uint32(step.Import))
	}
	body.Byte(opEnd)

	sec = newWriter()
	sec.WriteU32(1)
	sec.WriteU32(uint32(len(body.Bytes())))
	sec.WriteBytes(body.Bytes())
	writeSection(w, sectionCode, sec.Bytes())

	// Data section: single active segment
	if len(cfg.Data) > 0 {
		sec = newWriter()
		sec.WriteU32(1)
		sec.WriteU32(0) // active, memory 0
		sec.Byte(opI32Const)
		sec.WriteS32(int32(cfg.DataOffset))
		sec.Byte(opEnd)
		sec.WriteU32(uint32(len(cfg.Data)))
		sec.WriteBytes(cfg.Data)
		writeSection(w, sectionData, sec.Bytes())
	}

	return w.Bytes()
}

// memoryPages returns the page count covering both the configured minimum
// and the data segment.
func memoryPages(cfg Config) uint32 {
	pages := cfg.MemoryPages
	if pages == 0 {
		pages = 1
	}
	if len(cfg.Data) > 0 {
		end := uint64(cfg.DataOffset) + uint64(len(cfg.Data))
		need := uint32((end + pageSize - 1) / pageSize)
		if need > pages {
			pages = need
		}
	}
	return pages
}
