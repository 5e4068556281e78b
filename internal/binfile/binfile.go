// Package binfile loads JRISC code from disk: raw binaries, ELF objects
// emitted by Jaguar toolchains, and hex text typed on the command line.
package binfile

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"
	"os"
	"syscall"
)

var (
	ErrNoSection  = errors.New("section not found")
	ErrOutOfRange = errors.New("range outside file")
)

// File is a loaded input. Raw binaries have no sections.
type File struct {
	Path     string
	All      []byte
	ELF      *elf.File
	Sections []Section

	f      *os.File
	mapped bool
}

// Section is a loadable ELF section.
type Section struct {
	Name string
	Addr uint32
	Off  uint32
	Size uint32
	Exec bool
}

// Open maps path read-only and parses it as ELF when it carries the ELF
// magic.
func Open(path string) (*File, error) {
	of, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	fi, err := of.Stat()
	if err != nil {
		of.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	bf := &File{Path: path, All: []byte{}, f: of}
	if fi.Size() > 0 {
		all, err := syscall.Mmap(int(of.Fd()), 0, int(fi.Size()), syscall.PROT_READ, syscall.MAP_SHARED)
		if err != nil {
			of.Close()
			return nil, fmt.Errorf("mmap file: %w", err)
		}
		bf.All = all
		bf.mapped = true
	}

	if err := bf.parse(); err != nil {
		bf.Close()
		return nil, err
	}
	return bf, nil
}

// Load wraps bytes already in memory, such as standard input.
func Load(name string, data []byte) (*File, error) {
	bf := &File{Path: name, All: data}
	if err := bf.parse(); err != nil {
		return nil, err
	}
	return bf, nil
}

func (bf *File) parse() error {
	if !bytes.HasPrefix(bf.All, []byte(elf.ELFMAG)) {
		return nil
	}
	ef, err := elf.NewFile(bytes.NewReader(bf.All))
	if err != nil {
		return fmt.Errorf("parse elf: %w", err)
	}
	bf.ELF = ef
	for _, s := range ef.Sections {
		if s.Type != elf.SHT_PROGBITS || s.Size == 0 {
			continue
		}
		bf.Sections = append(bf.Sections, Section{
			Name: s.Name,
			Addr: uint32(s.Addr),
			Off:  uint32(s.Offset),
			Size: uint32(s.Size),
			Exec: s.Flags&elf.SHF_EXECINSTR != 0,
		})
	}
	return nil
}

// Close unmaps the memory and closes the underlying file.
func (bf *File) Close() error {
	var err1, err2 error
	if bf.mapped {
		err1 = syscall.Munmap(bf.All)
		bf.mapped = false
	}
	bf.All = nil
	if bf.f != nil {
		err2 = bf.f.Close()
		bf.f = nil
	}
	if bf.ELF != nil {
		if err3 := bf.ELF.Close(); err3 != nil && err2 == nil {
			err2 = err3
		}
		bf.ELF = nil
	}
	if err1 != nil {
		return err1
	}
	return err2
}

// IsELF reports whether the file was parsed as ELF.
func (bf *File) IsELF() bool {
	return bf.ELF != nil
}

// Section returns the contents and load address of the named section. An
// empty name picks .text, or failing that the first executable section.
func (bf *File) Section(name string) ([]byte, uint32, error) {
	var found *Section
	for i := range bf.Sections {
		s := &bf.Sections[i]
		if s.Name == name || (name == "" && s.Name == ".text") {
			found = s
			break
		}
	}
	if found == nil && name == "" {
		for i := range bf.Sections {
			if bf.Sections[i].Exec {
				found = &bf.Sections[i]
				break
			}
		}
	}
	if found == nil {
		if name == "" {
			name = ".text"
		}
		return nil, 0, fmt.Errorf("%w: %s", ErrNoSection, name)
	}
	end := uint64(found.Off) + uint64(found.Size)
	if end > uint64(len(bf.All)) {
		return nil, 0, fmt.Errorf("%w: section %s ends at %#x", ErrOutOfRange, found.Name, end)
	}
	return bf.All[found.Off:end], found.Addr, nil
}

// Window returns n bytes of the file starting at off. A negative n runs to
// the end of the file.
func (bf *File) Window(off, n int64) ([]byte, error) {
	return Slice(bf.All, off, n)
}

// Slice is Window over any byte range, such as a section.
func Slice(data []byte, off, n int64) ([]byte, error) {
	size := int64(len(data))
	if off < 0 || off > size {
		return nil, fmt.Errorf("%w: offset %#x, size %#x", ErrOutOfRange, off, size)
	}
	if n < 0 {
		return data[off:], nil
	}
	if off+n > size {
		return nil, fmt.Errorf("%w: %#x bytes at %#x, size %#x", ErrOutOfRange, n, off, size)
	}
	return data[off : off+n], nil
}
