// Package reqs collects the requirements of a spyn run and fingerprints them.
//
// # Inline markers
//
// A script declares its dependencies by tagging import statements with a
// trailing comment that starts with one of the marker tokens "fades" or "spyn":
//
//	import requests        # spyn
//	import numpy as np, yaml  # fades
//	from bs4 import BeautifulSoup  # spyn
//
// [Parse] extracts "requests", "numpy", "yaml" and "bs4" from the lines above.
// Matching is a plain prefix test on the comment text, so "# fadesomething"
// also activates a line. Module names are taken verbatim: no identifier
// validation and no mapping from import names to distribution names.
//
// # Sets and fingerprints
//
// A [Set] is an unordered, deduplicated collection of requirement names.
// [Set.Fingerprint] hashes the sorted members together with an optional
// interpreter selector using SHA3-224, producing the 56-character hex name of
// the environment directory in the cache. Discovery order never affects the
// fingerprint.
//
// # Manifests
//
// [Set.WriteManifest] writes requirements.txt for the installer. The file is
// created exclusively; an existing manifest is an error rather than something
// to overwrite.
package reqs
