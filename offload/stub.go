package offload

import (
	"fmt"
	"strings"
)

// FatbinSection is the section name the embedded bundle symbol must live
// in so the host-side driver can find it at load time.
const FatbinSection = ".hip_fatbin"

// FatbinSymbol is the fixed symbol name the HIP runtime looks up at load
// time; it is not a project-chosen name and must not vary between builds.
const FatbinSymbol = "__hip_fatbin"

// GenerateStub renders a tiny C source file that embeds bundlePath's bytes
// as symbolName, aligned to 4096 in FatbinSection. The host compiler
// invoked over this stub produces the linkable object that carries the
// offload bundle into the final executable.
func GenerateStub(symbolName, bundlePath string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "__attribute__((section(\"%s\"), aligned(%d)))\n", FatbinSection, DefaultAlignment)
	fmt.Fprintf(&b, "const unsigned char %s[] = {\n", symbolName)
	b.WriteString("#embed \"")
	b.WriteString(bundlePath)
	b.WriteString("\"\n")
	b.WriteString("};\n")
	return b.String()
}
