// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

// xpdump prints the contents of msgpack files and badger backed stores.
//
//	xpdump <file>                   decode a file and print the value
//	xpdump -badger <dir>            print every entry of a store
//	xpdump -badger <dir> -prefix p  same, for a store shared under prefix p
//	xpdump -badger <dir> -raw       print the raw keys and value sizes
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/sroar"
	"github.com/pkg/errors"
	"github.com/shurcooL/go-goon"
	"github.com/ssbc/go-luigi"
	"go.mindeco.de/logging"

	"github.com/ssbc/extpack"
	"github.com/ssbc/extpack/codec/msgpack"
	pbadger "github.com/ssbc/extpack/internal/persist/badger"
	"github.com/ssbc/extpack/store"
	sbadger "github.com/ssbc/extpack/store/badger"
)

var check = logging.CheckFatal

func main() {
	var (
		badgerDir = flag.String("badger", "", "badger store directory to dump")
		prefix    = flag.String("prefix", "", "key prefix of a shared store")
		raw       = flag.Bool("raw", false, "list raw keys instead of decoding entries")
		keepGC    = flag.Bool("keepgc", false, "don't pause the garbage collector while decoding")
	)
	flag.Parse()

	logging.SetupLogging(nil)
	log := logging.Logger("xpdump")

	opts := unpackOptions(*keepGC)

	switch {
	case *badgerDir != "" && *raw:
		check(dumpRaw(*badgerDir))

	case *badgerDir != "":
		n, err := dumpStore(*badgerDir, []byte(*prefix), log, opts)
		check(err)
		log.Log("event", "done", "entries", n)

	case flag.NArg() == 1:
		v, err := msgpack.ReadFile(flag.Arg(0), opts...)
		check(err)
		goon.Dump(v)

	default:
		fmt.Fprintf(os.Stderr, "usage: %s [-keepgc] <file> | -badger <dir> [-prefix p] [-raw]\n", os.Args[0])
		os.Exit(1)
	}
}

// unpackOptions applies to files and to every entry of a store.
func unpackOptions(keepGC bool) []extpack.UnpackOption {
	return []extpack.UnpackOption{extpack.WithGCSuspended(!keepGC)}
}

func dumpStore(dir string, prefix []byte, log store.Logger, opts []extpack.UnpackOption) (int, error) {
	codec := msgpack.New(opts...)

	var (
		l   *store.Log
		err error
	)
	if len(prefix) == 0 {
		l, err = sbadger.Open(dir, codec, store.WithLogger(log))
	} else {
		var db *badger.DB
		db, err = badger.Open(pbadger.BadgerOpts(dir))
		if err != nil {
			return 0, errors.Wrap(err, "error opening database")
		}
		defer db.Close()
		l, err = sbadger.OpenShared(db, prefix, codec, store.WithLogger(log))
	}
	if err != nil {
		return 0, errors.Wrap(err, "error opening store")
	}
	defer l.Close()

	src, err := l.Query(store.SeqWrap(true))
	if err != nil {
		return 0, err
	}

	ctx := context.Background()
	n := 0
	for {
		v, err := src.Next(ctx)
		if luigi.IsEOS(err) {
			return n, nil
		} else if err != nil {
			return n, err
		}

		sw := v.(store.SeqWrapper)
		if sw.Value() == store.ErrNulled {
			fmt.Printf("%d: <nulled>\n", sw.Seq())
		} else {
			fmt.Printf("%d: %s\n", sw.Seq(), goon.Sdump(sw.Value()))
		}
		n++
	}
}

func dumpRaw(dir string) error {
	db, err := badger.Open(pbadger.BadgerOpts(dir))
	if err != nil {
		return errors.Wrap(err, "error opening database")
	}

	err = db.View(func(txn *badger.Txn) error {
		iter := txn.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			it := iter.Item()
			k := it.KeyCopy(nil)

			var dataLen int
			var debugData string
			err := it.Value(func(v []byte) error {
				dataLen = len(v)
				if bytes.HasSuffix(k, []byte("nulled")) {
					debugData = sroar.FromBuffer(v).String()
				} else {
					debugData = fmt.Sprintf("%x", v)
				}
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Printf("%q: %d\n", string(k), dataLen)
			fmt.Println(debugData + "\n")
		}
		return nil
	})
	if err != nil {
		db.Close()
		return err
	}
	return db.Close()
}
