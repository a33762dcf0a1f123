package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var envRefPattern = regexp.MustCompile(`\$\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}`)

// RpcEndpoint is either a literal URL or a string referencing environment
// variables as ${NAME}. References are resolved when a connection is made.
type RpcEndpoint struct {
	URL string
	Env string
}

// UrlEndpoint creates a literal endpoint
func UrlEndpoint(url string) RpcEndpoint {
	return RpcEndpoint{URL: url}
}

// EnvEndpoint creates an endpoint resolved from the environment
func EnvEndpoint(ref string) RpcEndpoint {
	return RpcEndpoint{Env: ref}
}

// IsEnv reports whether the endpoint references environment variables
func (e RpcEndpoint) IsEnv() bool {
	return e.Env != ""
}

// UnresolvedEnvVarError is returned when a referenced variable is not set
type UnresolvedEnvVarError struct {
	Ref string
	Var string
}

func (e *UnresolvedEnvVarError) Error() string {
	return fmt.Sprintf("failed to resolve %s: environment variable %s not set", e.Ref, e.Var)
}

// Resolve returns the endpoint URL, expanding environment references
func (e RpcEndpoint) Resolve() (string, error) {
	if !e.IsEnv() {
		return e.URL, nil
	}
	var missing string
	res := envRefPattern.ReplaceAllStringFunc(e.Env, func(m string) string {
		name := envRefPattern.FindStringSubmatch(m)[1]
		val, ok := os.LookupEnv(name)
		if !ok && missing == "" {
			missing = name
		}
		return val
	})
	if missing != "" {
		return "", &UnresolvedEnvVarError{Ref: e.Env, Var: missing}
	}
	return res, nil
}

func (e RpcEndpoint) String() string {
	if e.IsEnv() {
		return e.Env
	}
	return e.URL
}

// MarshalText implements encoding.TextMarshaler
func (e RpcEndpoint) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Values containing a ${NAME} reference become environment endpoints.
func (e *RpcEndpoint) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		return fmt.Errorf("empty rpc endpoint")
	}
	if envRefPattern.MatchString(s) {
		*e = EnvEndpoint(s)
	} else {
		*e = UrlEndpoint(s)
	}
	return nil
}

// RpcEndpoints maps aliases to endpoints
type RpcEndpoints map[string]RpcEndpoint

// Aliases returns the endpoint aliases in sorted order
func (r RpcEndpoints) Aliases() []string {
	res := make([]string, 0, len(r))
	for alias := range r {
		res = append(res, alias)
	}
	sort.Strings(res)
	return res
}

// Resolve looks up an alias and resolves its URL
func (r RpcEndpoints) Resolve(alias string) (string, error) {
	e, ok := r[alias]
	if !ok {
		return "", fmt.Errorf("unknown rpc alias %q", alias)
	}
	return e.Resolve()
}

// DefaultRpcEndpoints returns the endpoints available to tests by default
func DefaultRpcEndpoints() RpcEndpoints {
	return RpcEndpoints{
		"rpcAlias":    UrlEndpoint("https://eth-mainnet.alchemyapi.io/v2/Lc7oIGYeL_QvInzI0Wiu_pOZZDEKBrdf"),
		"rpcEnvAlias": EnvEndpoint("${RPC_ENV_ALIAS}"),
	}
}
