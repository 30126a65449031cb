package generator

import (
	"regexp"
	"strings"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/blocks"
	"github.com/ariel-frischer/blockcraft/internal/intake"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RemoteFunc reports the owner and repository of the project's git remote.
type RemoteFunc func() (owner, repo string, ok bool)

type manifest struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Author      any    `mapstructure:"author"`
	License     string `mapstructure:"license"`
}

// authorPattern matches the "Name <email> (url)" package.json author form.
var authorPattern = regexp.MustCompile(`^\s*([^<(]*?)\s*(?:<([^>]+)>)?\s*(?:\(([^)]*)\))?\s*$`)

func parseAuthor(v any) (name, email string) {
	switch a := v.(type) {
	case string:
		m := authorPattern.FindStringSubmatch(a)
		if m == nil {
			return strings.TrimSpace(a), ""
		}
		return m[1], m[2]
	case map[string]any:
		name, _ = a["name"].(string)
		email, _ = a["email"].(string)
		return name, email
	default:
		return "", ""
	}
}

// IntakeBase recovers project-wide values from an existing project: owner
// and repository from the git remote, description, author and license from
// package.json, the node version from .nvmrc and usage from README.md.
// Anything not found stays empty.
func IntakeBase(src intake.Source, remote RemoteFunc) block.Base {
	var base block.Base

	if remote != nil {
		if owner, repo, ok := remote(); ok {
			base.Owner, base.Repository = owner, repo
		}
	}

	if pkg := intake.DecodeKnown[manifest](intake.JSON(src, "package.json")); pkg.Ok() {
		m := pkg.Value
		if base.Repository == "" {
			base.Repository = m.Name
		}
		base.Description = m.Description
		base.License = m.License
		base.Author, base.Email = parseAuthor(m.Author)
		if base.Email != "" && validate.Var(base.Email, "email") != nil {
			base.Email = ""
		}
	}

	if nvmrc := intake.Text(src, ".nvmrc"); nvmrc.Ok() {
		version := strings.TrimPrefix(strings.TrimSpace(nvmrc.Value), "v")
		if nodeVersionPattern.MatchString(version) {
			base.NodeVersion = version
		}
	}

	if usage := blocks.ReadmeUsage(src); usage.Ok() {
		base.Usage = usage.Value
	}
	return base
}

var nodeVersionPattern = regexp.MustCompile(`^\d+(\.\d+){0,2}$`)
