package target

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownOS is returned when an operating system name is not recognised.
	ErrUnknownOS = errors.New("unknown operating system")
	// ErrUnknownArch is returned when an architecture name is not recognised.
	ErrUnknownArch = errors.New("unknown architecture")
	// ErrInvalidTarget is returned for an (OS, architecture) pair that is not supported.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrInvalidBuildName is returned for a variant name that is not a plain file name.
	ErrInvalidBuildName = errors.New("invalid build name")
)

// OS is a target operating system.
type OS int

const (
	Linux OS = iota + 1
	Windows
	Mac
)

var osNames = map[OS]string{
	Linux:   "linux",
	Windows: "windows",
	Mac:     "mac",
}

func (o OS) String() string {
	if name, ok := osNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OS(%d)", int(o))
}

// ParseOS resolves a configuration key such as "linux" or "Windows".
func ParseOS(name string) (OS, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for o, n := range osNames {
		if n == key {
			return o, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOS, name)
}

// Arch is a target CPU architecture. The Musl variants link against musl libc
// instead of glibc.
type Arch int

const (
	Aarch64 Arch = iota + 1
	Aarch64Musl
	Armv7h
	Armv7hMusl
	Armh
	ArmhMusl
	Amd64
	Amd64Musl
	I686
)

var archNames = map[Arch]string{
	Aarch64:     "aarch64",
	Aarch64Musl: "aarch64-musl",
	Armv7h:      "armv7h",
	Armv7hMusl:  "armv7h-musl",
	Armh:        "armh",
	ArmhMusl:    "armh-musl",
	Amd64:       "amd64",
	Amd64Musl:   "amd64-musl",
	I686:        "i686",
}

// archAliases accepts the unhyphenated musl spellings of older configs.
var archAliases = map[string]Arch{
	"armv7hmusl": Armv7hMusl,
	"armhmusl":   ArmhMusl,
	"amd64musl":  Amd64Musl,
}

func (a Arch) String() string {
	if name, ok := archNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Arch(%d)", int(a))
}

// ParseArch resolves a configuration key such as "amd64", "armv7h-musl" or
// "armv7hmusl".
func ParseArch(name string) (Arch, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if a, ok := archAliases[key]; ok {
		return a, nil
	}
	for a, n := range archNames {
		if n == key {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownArch, name)
}

// Platform is an (OS, architecture) pair.
type Platform struct {
	OS   OS
	Arch Arch
}

func (p Platform) String() string {
	return p.OS.String() + "/" + p.Arch.String()
}

// supported is the whitelist checked by New.
var supported = map[Platform]struct{}{
	{Linux, Aarch64}:     {},
	{Linux, Aarch64Musl}: {},
	{Linux, Armv7h}:      {},
	{Linux, Armv7hMusl}:  {},
	{Linux, Armh}:        {},
	{Linux, ArmhMusl}:    {},
	{Linux, Amd64}:       {},
	{Linux, Amd64Musl}:   {},
	{Windows, Amd64}:     {},
	{Windows, I686}:      {},
	{Mac, Amd64}:         {},
}

// triples renders a platform as the toolchain target triple. It is keyed the
// same way as supported but kept separate so rendering never has to assume
// validity.
var triples = map[Platform]string{
	{Linux, Aarch64}:     "aarch64-unknown-linux-gnu",
	{Linux, Aarch64Musl}: "aarch64-unknown-linux-musl",
	{Linux, Armv7h}:      "armv7-unknown-linux-gnueabihf",
	{Linux, Armv7hMusl}:  "armv7-unknown-linux-musleabihf",
	{Linux, Armh}:        "arm-unknown-linux-gnueabihf",
	{Linux, ArmhMusl}:    "arm-unknown-linux-musleabihf",
	{Linux, Amd64}:       "x86_64-unknown-linux-gnu",
	{Linux, Amd64Musl}:   "x86_64-unknown-linux-musl",
	{Windows, Amd64}:     "x86_64-pc-windows-gnu",
	{Windows, I686}:      "i686-pc-windows-gnu",
	{Mac, Amd64}:         "x86_64-apple-darwin",
}

// UnknownTriple is rendered for a pair missing from the triple table.
const UnknownTriple = "unknown"

// Supported reports whether the pair is on the whitelist.
func (p Platform) Supported() bool {
	_, ok := supported[p]
	return ok
}

// Triple renders the canonical platform string, or UnknownTriple.
func (p Platform) Triple() string {
	if s, ok := triples[p]; ok {
		return s
	}
	return UnknownTriple
}

// Platforms returns every supported pair ordered by OS then architecture.
func Platforms() []Platform {
	out := make([]Platform, 0, len(supported))
	for p := range supported {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OS != out[j].OS {
			return out[i].OS < out[j].OS
		}
		return out[i].Arch < out[j].Arch
	})
	return out
}
