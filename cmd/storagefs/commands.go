package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	impl "github.com/SchnorcherSepp/storagefs/defaultimpl"
	interf "github.com/SchnorcherSepp/storagefs/interfaces"
)

// args returns the positional arguments or a usage error if there are less than n.
func args(cmd *cli.Command, n int) ([]string, error) {
	if cmd.NArg() < n {
		return nil, fmt.Errorf("usage: %s %s", cmd.Name, cmd.ArgsUsage)
	}
	return cmd.Args().Slice(), nil
}

func cmdList(ctx context.Context, cmd *cli.Command, a *app) error {
	path := interf.RootPath
	if cmd.NArg() > 0 {
		path = cmd.Args().First()
	}

	var list []interf.StorageFile
	var err error
	switch {
	case cmd.Bool("recursive") && cmd.Bool("dirs"):
		list, err = a.storage.AllDirectories(ctx, path)
	case cmd.Bool("recursive"):
		list, err = a.storage.AllFiles(ctx, path)
	case cmd.Bool("dirs"):
		list, err = a.storage.Directories(ctx, path)
	default:
		list, err = a.storage.Files(ctx, path)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.Root().Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tVISIBILITY\tSIZE\tMODIFIED\tPATH")
	for _, f := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", f.Type, f.Visibility, f.Size, f.LastModified.Format(time.RFC3339), f.Path)
	}
	return w.Flush()
}

func cmdCat(ctx context.Context, cmd *cli.Command, a *app) error {
	p, err := args(cmd, 1)
	if err != nil {
		return err
	}
	data, err := a.storage.Read(ctx, p[0], nil)
	if err != nil {
		return err
	}
	_, err = cmd.Root().Writer.Write(data)
	return err
}

func cmdPut(ctx context.Context, cmd *cli.Command, a *app) error {
	p, err := args(cmd, 1)
	if err != nil {
		return err
	}

	visibility := a.storage.Options().FileVisibility
	if v := cmd.String("visibility"); v != "" {
		if visibility, err = interf.ParseVisibility(v); err != nil {
			return err
		}
	}

	// source
	var r io.Reader = cmd.Root().Reader
	if len(p) > 1 && p[1] != "-" {
		fh, err := os.Open(p[1])
		if err != nil {
			return err
		}
		defer fh.Close()
		r = fh
	}

	n, err := impl.WriteFrom(ctx, a.adapter, p[0], r, 0, visibility, a.reporter(cmd, "put", p[0]))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "%d bytes written to %s\n", n, interf.ResolvePath(p[0]))
	return nil
}

func cmdMkdir(ctx context.Context, cmd *cli.Command, a *app) error {
	p, err := args(cmd, 1)
	if err != nil {
		return err
	}
	if v := cmd.String("visibility"); v != "" {
		visibility, err := interf.ParseVisibility(v)
		if err != nil {
			return err
		}
		return a.adapter.MakeDirectory(ctx, p[0], visibility)
	}
	return a.storage.MakeDirectory(ctx, p[0])
}

func cmdRemove(ctx context.Context, cmd *cli.Command, a *app) error {
	p, err := args(cmd, 1)
	if err != nil {
		return err
	}
	return a.storage.Delete(ctx, p...)
}

func cmdRemoveDir(ctx context.Context, cmd *cli.Command, a *app) error {
	p, err := args(cmd, 1)
	if err != nil {
		return err
	}
	return a.storage.DeleteDirectory(ctx, p[0], a.reporter(cmd, "rmdir", p[0]))
}

func cmdCopy(ctx context.Context, cmd *cli.Command, a *app) error {
	p, err := args(cmd, 2)
	if err != nil {
		return err
	}
	return a.storage.Copy(ctx, p[0], p[1], a.reporter(cmd, "cp", p[0]))
}

func cmdMove(ctx context.Context, cmd *cli.Command, a *app) error {
	p, err := args(cmd, 2)
	if err != nil {
		return err
	}
	return a.storage.Move(ctx, p[0], p[1], a.reporter(cmd, "mv", p[0]))
}

func cmdStat(ctx context.Context, cmd *cli.Command, a *app) error {
	p, err := args(cmd, 1)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.Root().Writer, 0, 0, 2, ' ', 0)
	for _, path := range p {
		f, ok, err := a.storage.Get(ctx, path)
		if err != nil {
			return err
		}
		if !ok {
			return interf.NewPathError("stat", interf.ResolvePath(path), interf.ErrFileNotFound)
		}
		fmt.Fprintf(w, "path:\t%s\n", f.Path)
		fmt.Fprintf(w, "name:\t%s\n", f.Name())
		fmt.Fprintf(w, "directory:\t%s\n", f.Directory())
		fmt.Fprintf(w, "type:\t%s\n", f.Type)
		fmt.Fprintf(w, "visibility:\t%s\n", f.Visibility)
		fmt.Fprintf(w, "size:\t%d\n", f.Size)
		fmt.Fprintf(w, "modified:\t%s\n", f.LastModified.Format(time.RFC3339Nano))
	}
	return w.Flush()
}

func cmdURL(ctx context.Context, cmd *cli.Command, a *app) error {
	p, err := args(cmd, 1)
	if err != nil {
		return err
	}
	u, err := a.storage.PublicURL(ctx, p[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, u)
	return nil
}

func cmdChmod(ctx context.Context, cmd *cli.Command, a *app) error {
	p, err := args(cmd, 2)
	if err != nil {
		return err
	}
	visibility, err := interf.ParseVisibility(p[0])
	if err != nil {
		return err
	}
	if !a.adapter.SupportsVisibility() {
		return errors.New("the adapter doesn't support visibility")
	}
	return a.storage.SetVisibility(ctx, p[1], visibility)
}

func cmdDemo(ctx context.Context, _ *cli.Command, a *app) error {
	return impl.InitDemo(ctx, a.adapter)
}
