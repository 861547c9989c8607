package dbdump

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const (
	cratesCSV = `created_at,description,documentation,downloads,homepage,id,max_upload_size,name,readme,repository,updated_at
2019-03-04 10:00:00.123456,MAVLink bindings,,52000,,10,,mavlink,"# mavlink
multi-line, quoted readme",https://github.com/mavlink/rust-mavlink,2024-07-01 12:00:00
2020-01-15 12:00:00,PX4 flight stack,https://docs.rs/px4,800,https://px4.io,11,,px4,,https://gitlab.com/px4/px4,2024-01-15 12:00:00.5
2018-05-05 05:05:05,Async runtime,,9000000,,12,,tokio,,https://github.com/tokio-rs/tokio,2024-08-30 19:30:29
`
	categoriesCSV = `category,crates_cnt,created_at,description,id,path,slug
Aerospace,2,2017-01-17 19:13:05,Crates for aerospace.,1,aerospace,aerospace
Aerospace::Drones,2,2017-01-17 19:13:05,Crates for drones.,2,aerospace.drones,drones
Asynchronous,1,2017-01-17 19:13:05,Async crates.,3,asynchronous,asynchronous
`
	cratesCategoriesCSV = `category_id,crate_id
2,10
1,10
2,11
3,12
`
)

// dumpArchive builds a gzipped tarball laid out like the real dump.
func dumpArchive(t *testing.T, tables map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	write := func(name string, body string) {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}

	if err := tw.WriteHeader(&tar.Header{Name: "2024-09-01-020017/", Typeflag: tar.TypeDir, Mode: 0o755}); err != nil {
		t.Fatal(err)
	}
	write("2024-09-01-020017/README.md", "dump readme")
	write("2024-09-01-020017/data/versions.csv", "id,num\n1,1.0.0\n")
	for name, body := range tables {
		write("2024-09-01-020017/data/"+name, body)
	}

	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func fullDump(t *testing.T) []byte {
	return dumpArchive(t, map[string]string{
		"crates.csv":            cratesCSV,
		"categories.csv":        categoriesCSV,
		"crates_categories.csv": cratesCategoriesCSV,
	})
}

func writeDump(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db-dump.tar.gz")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
