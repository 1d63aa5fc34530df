package variantgen

import "strings"

// variantName builds the wrapper's name from the source failable function's
// name: the trailing "!" and any dunder decoration are stripped from the
// method part, and a Type. qualifier prefix (for impl-block methods) is
// preserved ahead of the generated prefix.
func variantName(name, prefix string) string {
	qualifier := ""
	method := name
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		qualifier = name[:idx+1]
		method = name[idx+1:]
	}
	method = strings.TrimSuffix(method, "!")
	method = stripDunders(method)
	return qualifier + prefix + method
}

// stripDunders removes a single matching pair of leading/trailing double
// underscores, e.g. "__open__" -> "open".
func stripDunders(name string) string {
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") && len(name) > 4 {
		return name[2 : len(name)-2]
	}
	return name
}
