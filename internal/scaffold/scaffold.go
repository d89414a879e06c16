// Package scaffold writes the local files a fresh checkout needs before the
// server can run against a real provider.
package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type File struct {
	Path    string
	Content string
}

var Files = []File{
	{
		Path:    ".env.local.example",
		Content: "OPENAI_API_KEY=sk-your-openai-api-key-here\nDATABASE_URL=file:./data.db\n",
	},
	{
		Path: ".gitignore",
		Content: `# local env files
.env*.local
.env

# build output
/bin

# database
*.db
*.db-journal
`,
	},
}

type Result struct {
	Created []string
	Skipped []string
}

// Init writes Files under dir. Existing files are left untouched and
// reported as skipped.
func Init(dir string) (*Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	res := &Result{}
	for _, f := range Files {
		path := filepath.Join(dir, f.Path)
		out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			res.Skipped = append(res.Skipped, path)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("failed to create %s: %w", path, err)
		}

		_, err = out.WriteString(f.Content)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return res, fmt.Errorf("failed to write %s: %w", path, err)
		}
		res.Created = append(res.Created, path)
	}
	return res, nil
}
