package main

import (
	"flag"
	"fmt"
	"os"

	"rebeworld/tilemap"
)

// 地图工具：生成 / 扩展 / 校验编辑器格式的地图文件
// 用法：
//
//	maptool generate -width 120 -height 168 -tilesize 32 -border 1 -out map.json
//	maptool expand -in map.json -out big.json -width 120 -height 168
//	maptool validate -in map.json
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(os.Args[2:])
	case "expand":
		err = runExpand(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: maptool <generate|expand|validate> [flags]")
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	width := fs.Int("width", 120, "map width in tiles")
	height := fs.Int("height", 168, "map height in tiles")
	tileSize := fs.Int("tilesize", 32, "tile size in pixels")
	border := fs.Int("border", 1, "collision border thickness in tiles")
	out := fs.String("out", "map.json", "output file")
	_ = fs.Parse(args)

	if *width <= 0 || *height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", *width, *height)
	}
	m := tilemap.Generate(*width, *height, *tileSize, *border)
	if err := m.Save(*out); err != nil {
		return err
	}
	fmt.Printf("generated %dx%d map (%dpx tiles) -> %s\n", m.Width, m.Height, m.TileSize, *out)
	fmt.Printf("world size: %dx%dpx\n", m.Width*m.TileSize, m.Height*m.TileSize)
	return nil
}

func runExpand(args []string) error {
	fs := flag.NewFlagSet("expand", flag.ExitOnError)
	in := fs.String("in", "", "input map file")
	out := fs.String("out", "", "output map file")
	width := fs.Int("width", 120, "target width in tiles")
	height := fs.Int("height", 168, "target height in tiles")
	_ = fs.Parse(args)

	if *in == "" || *out == "" {
		return fmt.Errorf("both -in and -out are required")
	}
	m, err := tilemap.Load(*in)
	if err != nil {
		return err
	}
	expanded, err := m.Expand(*width, *height)
	if err != nil {
		return err
	}
	if err := expanded.Save(*out); err != nil {
		return err
	}
	fmt.Printf("expanded %dx%d -> %dx%d, saved to %s\n", m.Width, m.Height, *width, *height, *out)
	return nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	in := fs.String("in", "", "map file to validate")
	_ = fs.Parse(args)

	if *in == "" {
		return fmt.Errorf("-in is required")
	}
	m, err := tilemap.Load(*in)
	if err != nil {
		return err
	}
	fmt.Printf("%s ok: %dx%d, %dpx tiles\n", *in, m.Width, m.Height, m.TileSize)
	return nil
}
