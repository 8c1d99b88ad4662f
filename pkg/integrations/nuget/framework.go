package nuget

import (
	"strconv"
	"strings"
)

// ShortFramework returns the short, lowercase target framework moniker for
// tfm. Nuspec files and older restore outputs use long names:
//
//	".NETStandard2.0"             -> "netstandard2.0"
//	".NETFramework4.6.2"          -> "net462"
//	".NETFramework,Version=v4.8"  -> "net48"
//	".NETCoreApp3.1"              -> "netcoreapp3.1"
//	".NETCoreApp5.0"              -> "net5.0"
//
// Short monikers ("net8.0", "net472") and unrecognized names are only
// lowercased.
func ShortFramework(tfm string) string {
	s := strings.ToLower(strings.TrimSpace(tfm))
	if !strings.HasPrefix(s, ".") {
		return s
	}
	s = s[1:]

	ident, version, ok := strings.Cut(s, ",version=")
	if ok {
		version = strings.TrimPrefix(version, "v")
	} else {
		i := strings.IndexAny(s, "0123456789")
		if i < 0 {
			return s
		}
		ident, version = s[:i], s[i:]
	}

	switch ident {
	case "netstandard":
		return "netstandard" + version
	case "netframework":
		return "net" + strings.ReplaceAll(version, ".", "")
	case "netcoreapp":
		major, _, _ := strings.Cut(version, ".")
		if n, err := strconv.Atoi(major); err == nil && n >= 5 {
			return "net" + version
		}
		return "netcoreapp" + version
	}
	return ident + version
}

// SameFramework reports whether two monikers name the same framework,
// comparing their short forms.
func SameFramework(a, b string) bool {
	return ShortFramework(a) == ShortFramework(b)
}
