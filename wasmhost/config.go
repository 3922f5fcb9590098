package wasmhost

// Config configures the host module. Zero values select the defaults.
type Config struct {
	// ModuleName is the import module name guests use. Default "cbor".
	ModuleName string
	// Realloc is the guest export used to allocate and, without Free,
	// to release buffers. Default "cabi_realloc".
	Realloc string
	// Free is an optional guest export (ptr, size, align) preferred over
	// Realloc for releasing buffers. Default "cabi_free".
	Free string
	// Align is the alignment requested for output buffers. Default 1.
	Align uint32
}

const (
	DefaultModuleName = "cbor"
	DefaultRealloc    = "cabi_realloc"
	DefaultFree       = "cabi_free"
)

func (c Config) withDefaults() Config {
	if c.ModuleName == "" {
		c.ModuleName = DefaultModuleName
	}
	if c.Realloc == "" {
		c.Realloc = DefaultRealloc
	}
	if c.Free == "" {
		c.Free = DefaultFree
	}
	if c.Align == 0 {
		c.Align = 1
	}
	return c
}
