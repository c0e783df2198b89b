package cli

import (
	"context"
)

// maxPreview ограничивает длину data в выводе list
const maxPreview = 60

func (c *Cli) runList(ctx context.Context) error {
	objects, err := c.cache.ListObjects(ctx)
	if err != nil {
		return err
	}

	if len(objects) == 0 {
		c.io.Println("No cached objects. Run 'objsync pull' first.")
		return nil
	}

	for _, obj := range objects {
		c.io.Printf("%-36s  %15d  %s\n", obj.ID, obj.ModifiedAt, preview(string(obj.Data)))
	}
	c.io.Printf("Total: %d\n", len(objects))
	return nil
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= maxPreview {
		return s
	}
	return string(r[:maxPreview-3]) + "..."
}
