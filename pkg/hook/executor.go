package hook

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

var scriptModules = []string{"fmt", "os", "strings", "text", "times"}

func execute(ctx context.Context, t Type, content string, hc Context) error {
	script := tengo.NewScript([]byte(content))
	script.SetImports(stdlib.GetModuleMap(scriptModules...))

	vars := map[string]any{
		"versionID": hc.VersionID,
		"assetsID":  hc.AssetsID,
		"rootDir":   hc.RootDir,
		"platform":  hc.Platform,
		"javaMajor": hc.JavaMajor,
	}
	for k, v := range hc.Vars {
		vars[k] = v
	}
	for k, v := range vars {
		if err := script.Add(k, v); err != nil {
			return fmt.Errorf("%w: %s: variable %s: %w", ErrHookExecution, t, k, err)
		}
	}

	compiled, err := script.RunContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrHookExecution, t, err)
	}

	return scriptError(t, compiled.Get("err"))
}

func scriptError(t Type, v *tengo.Variable) error {
	if v == nil || v.IsUndefined() {
		return nil
	}

	var msg string
	switch o := v.Object().(type) {
	case *tengo.Error:
		msg, _ = tengo.ToString(o.Value)
	case *tengo.String:
		msg = o.Value
	default:
		return nil
	}
	if msg == "" {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", ErrHookScript, t, msg)
}
