// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	NoManifestFoundId Id = iota + 1
	AmbiguousSelectionId
	InvalidStartPathId
	ManifestParseFailedId
	ConfigLoadFailedId
	WatchFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	noManifestFoundIssue = &Issue{
		id: NoManifestFoundId,
		mdMsg: `
# No package.json found!

We searched the start directory, its parents and its subdirectories but
found no usable package.json.

## Search order:
1. The start directory and up to 10 parent directories
2. Subdirectories up to 5 levels deep (node_modules, dist, build and
   hidden directories are skipped)

## Things you can try:
- Run from inside your project:
~~~
$ cd /path/to/your/project
$ npmrun discover
~~~

- Search deeper or include dependencies:
~~~
$ npmrun discover --max-down 8 --include-node-modules
~~~`,
		extLinks: []HttpLink{"https://docs.npmjs.com/cli/configuring-npm/package-json"},
	}

	ambiguousSelectionIssue = &Issue{
		id: AmbiguousSelectionId,
		mdMsg: `
# More than one package.json fits!

No single package.json scored clearly above the others, so none was picked
automatically.

## Things you can try:
- Run the command from the package directory you mean
- Declare your workspace roots so they are always preferred:
~~~
$ npmrun pick --root /path/to/workspace
~~~

- Or persist them in your config file:
~~~cue
workspace_roots: ["/path/to/workspace"]
~~~`,
	}

	invalidStartPathIssue = &Issue{
		id: InvalidStartPathId,
		mdMsg: `
# Start path is not usable!

The path given to npmrun could not be resolved to an absolute directory.

## Things you can try:
- Check the path for typos
- Pass a directory or a package.json file`,
	}

	manifestParseFailedIssue = &Issue{
		id: ManifestParseFailedId,
		mdMsg: `
# A package.json could not be parsed!

The file is not a JSON object. It was skipped during discovery.

## Things you can try:
- Validate the file:
~~~
$ node -e "require('./package.json')"
~~~

- Run with --verbose to list every skipped file`,
		extLinks: []HttpLink{"https://docs.npmjs.com/cli/configuring-npm/package-json"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your npmrun configuration file could not be loaded.

## Things you can try:
- Check the config file syntax (CUE format)
- Print the effective configuration:
~~~
$ npmrun config show
~~~

- Write a fresh default file:
~~~
$ npmrun config init
~~~

## Example config.cue:
~~~cue
discovery: {
	max_depth_up:   10
	max_depth_down: 5
}
ui: color_scheme: "auto"
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# Could not watch for package.json changes!

The file watcher stopped with an error.

## Common causes:
- The inotify watch limit was reached on Linux
- A watched directory was removed

## Things you can try:
- Raise the inotify limit:
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
~~~

- Ignore large directories in your config file:
~~~cue
watch: ignore: ["**/vendor/**"]
~~~`,
	}

	issues = map[Id]*Issue{
		noManifestFoundIssue.Id():     noManifestFoundIssue,
		ambiguousSelectionIssue.Id():  ambiguousSelectionIssue,
		invalidStartPathIssue.Id():    invalidStartPathIssue,
		manifestParseFailedIssue.Id(): manifestParseFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		watchFailedIssue.Id():         watchFailedIssue,
	}
)

// Values returns every catalog issue ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
