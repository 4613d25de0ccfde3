/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mikeb26/scholastic-swiss-td/internal"
	"github.com/mikeb26/scholastic-swiss-td/roster"
	"github.com/mikeb26/scholastic-swiss-td/s3backup"
	"github.com/mikeb26/scholastic-swiss-td/store"
	"github.com/mikeb26/scholastic-swiss-td/swiss"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":        handleHelp,
	"create":      handleCreate,
	"tournaments": handleTournaments,
	"register":    handleRegister,
	"roster":      handleRoster,
	"import":      handleImport,
	"webimport":   handleWebImport,
	"pair":        handlePair,
	"result":      handleResult,
	"pairings":    handlePairings,
	"standings":   handleStandings,
	"export":      handleExport,
	"backup":      handleBackup,
	"restore":     handleRestore,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

func defaultDBPath() string {
	if path := os.Getenv(internal.DBPathEnvVar); path != "" {
		return path
	}
	return internal.DefaultDBPath
}

// dbFlag registers the shared -db flag on a command's FlagSet.
func dbFlag(fs *flag.FlagSet) *string {
	return fs.String("db", defaultDBPath(), "Path to the tournament database")
}

func openStore(path string) *store.Store {
	s, err := store.Open(path)
	if err != nil {
		log.Fatalf("Error opening %v: %v", path, err)
	}
	return s
}

func handleCreate(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	dbPath := dbFlag(fs)
	name := fs.String("name", "", "Tournament name")
	dateStr := fs.String("date", "", "Event date (e.g. 2026-03-14)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *name == "" {
		fmt.Fprintln(os.Stderr, "Please provide a tournament --name.")
		fs.Usage()
		os.Exit(1)
	}
	date, err := internal.ParseDateOrZero(*dateStr)
	if err != nil {
		log.Fatalf("Error parsing date %q: %v", *dateStr, err)
	}

	s := openStore(*dbPath)
	defer s.Close()

	id, err := s.CreateTournament(ctx, *name, date)
	if err != nil {
		log.Fatalf("Error creating tournament: %v", err)
	}
	fmt.Printf("Created tournament %q (tid:%v)\n", *name, id)
}

func handleTournaments(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("tournaments", flag.ExitOnError)
	dbPath := dbFlag(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s := openStore(*dbPath)
	defer s.Close()

	tournaments, err := s.Tournaments(ctx)
	if err != nil {
		log.Fatalf("Error listing tournaments: %v", err)
	}
	if len(tournaments) == 0 {
		fmt.Printf("No tournaments found. Run '%s create' to add one.\n",
			os.Args[0])
		return
	}
	for _, t := range tournaments {
		if t.Date.IsZero() {
			fmt.Printf("  - %s (tid:%d)\n", t.Name, t.ID)
		} else {
			fmt.Printf("  - %s on %s (tid:%d)\n", t.Name,
				t.Date.Format("2006-01-02"), t.ID)
		}
	}
}

func handleRegister(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	dbPath := dbFlag(fs)
	tid := fs.Int64("tid", 0, "Tournament id")
	name := fs.String("name", "", "Player name")
	grade := fs.String("grade", "", "Player grade")
	school := fs.String("school", "", "Player school")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *tid <= 0 || *name == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --tid and --name.")
		fs.Usage()
		os.Exit(1)
	}

	s := openStore(*dbPath)
	defer s.Close()

	normalized := internal.NormalizeName(*name)
	id, err := s.AddPlayer(ctx, *tid, normalized, *grade, *school)
	if err != nil {
		log.Fatalf("Error registering %v: %v", normalized, err)
	}
	fmt.Printf("Registered %v (player:%v)\n", normalized, id)
}

func handleRoster(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("roster", flag.ExitOnError)
	dbPath := dbFlag(fs)
	tid := fs.Int64("tid", 0, "Tournament id")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *tid <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --tid.")
		fs.Usage()
		os.Exit(1)
	}

	s := openStore(*dbPath)
	defer s.Close()

	snap, err := swiss.NewEngine(s).ExportSnapshot(ctx, *tid)
	if err != nil {
		log.Fatalf("Error loading roster for tid:%d: %v", *tid, err)
	}
	fmt.Print(swiss.BuildRosterOutput(snap.Players))
}

func handleImport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dbPath := dbFlag(fs)
	tid := fs.Int64("tid", 0, "Tournament id")
	file := fs.String("file", "", "Roster CSV file (name,grade,school)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *tid <= 0 || *file == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --tid and --file.")
		fs.Usage()
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Error opening %v: %v", *file, err)
	}
	defer f.Close()

	s := openStore(*dbPath)
	defer s.Close()

	count, err := roster.ImportCSV(ctx, s, *tid, f)
	if err != nil {
		log.Fatalf("Error importing %v: %v", *file, err)
	}
	fmt.Printf("Registered %v players from %v\n", count, *file)
}

func handleWebImport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("webimport", flag.ExitOnError)
	dbPath := dbFlag(fs)
	tid := fs.Int64("tid", 0, "Tournament id")
	urls := fs.String("urls", "",
		"Comma separated school registration page URLs")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *tid <= 0 || *urls == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --tid and --urls.")
		fs.Usage()
		os.Exit(1)
	}

	s := openStore(*dbPath)
	defer s.Close()

	count, err := roster.ImportWeb(ctx, s, *tid, strings.Split(*urls, ","))
	if err != nil {
		log.Fatalf("Error importing rosters: %v", err)
	}
	fmt.Printf("Registered %v players\n", count)
}

func handlePair(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("pair", flag.ExitOnError)
	dbPath := dbFlag(fs)
	tid := fs.Int64("tid", 0, "Tournament id")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *tid <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --tid.")
		fs.Usage()
		os.Exit(1)
	}

	s := openStore(*dbPath)
	defer s.Close()

	engine := swiss.NewEngine(s)
	pairings, err := engine.GenerateNextRound(ctx, *tid)
	if err != nil {
		log.Fatalf("Error generating pairings for tid:%d: %v", *tid, err)
	}
	snap, err := engine.ExportSnapshot(ctx, *tid)
	if err != nil {
		log.Fatalf("Error loading roster for tid:%d: %v", *tid, err)
	}
	fmt.Print(swiss.BuildPairingsOutput(snap.Players, pairings))
}

func handleResult(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("result", flag.ExitOnError)
	dbPath := dbFlag(fs)
	pairingID := fs.Int64("pairing", 0, "Pairing id")
	resultStr := fs.String("result", "", "Game result (1-0, 0-1, or draw)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *pairingID <= 0 || *resultStr == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --pairing and --result.")
		fs.Usage()
		os.Exit(1)
	}
	result, err := swiss.ParseResult(*resultStr)
	if err != nil {
		log.Fatalf("Error parsing result %q: %v", *resultStr, err)
	}

	s := openStore(*dbPath)
	defer s.Close()

	if err := swiss.NewEngine(s).SetPairingResult(ctx, *pairingID,
		result); err != nil {
		log.Fatalf("Error recording result for pairing:%d: %v", *pairingID,
			err)
	}
	fmt.Printf("Recorded %v for pairing:%d\n", result, *pairingID)
}

func handlePairings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("pairings", flag.ExitOnError)
	dbPath := dbFlag(fs)
	tid := fs.Int64("tid", 0, "Tournament id")
	round := fs.Int("round", 0, "Round to show (defaults to latest)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *tid <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --tid.")
		fs.Usage()
		os.Exit(1)
	}

	s := openStore(*dbPath)
	defer s.Close()

	snap, err := swiss.NewEngine(s).ExportSnapshot(ctx, *tid)
	if err != nil {
		log.Fatalf("Error loading pairings for tid:%d: %v", *tid, err)
	}

	show := *round
	if show == 0 {
		for _, p := range snap.Pairings {
			if p.RoundNumber > show {
				show = p.RoundNumber
			}
		}
	}
	var selected []swiss.Pairing
	for _, p := range snap.Pairings {
		if p.RoundNumber == show {
			selected = append(selected, p)
		}
	}
	fmt.Print(swiss.BuildPairingsOutput(snap.Players, selected))
}

func handleStandings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("standings", flag.ExitOnError)
	dbPath := dbFlag(fs)
	tid := fs.Int64("tid", 0, "Tournament id")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *tid <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --tid.")
		fs.Usage()
		os.Exit(1)
	}

	s := openStore(*dbPath)
	defer s.Close()

	standings, err := swiss.NewEngine(s).ComputeStandings(ctx, *tid)
	if err != nil {
		log.Fatalf("Error computing standings for tid:%d: %v", *tid, err)
	}
	fmt.Print(swiss.BuildStandingsOutput(standings))
}

func handleExport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dbPath := dbFlag(fs)
	tid := fs.Int64("tid", 0, "Tournament id")
	file := fs.String("file", "", "Output CSV file (defaults to stdout)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *tid <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --tid.")
		fs.Usage()
		os.Exit(1)
	}

	s := openStore(*dbPath)
	defer s.Close()

	standings, err := swiss.NewEngine(s).ComputeStandings(ctx, *tid)
	if err != nil {
		log.Fatalf("Error computing standings for tid:%d: %v", *tid, err)
	}

	out := os.Stdout
	if *file != "" {
		out, err = os.Create(*file)
		if err != nil {
			log.Fatalf("Error creating %v: %v", *file, err)
		}
		defer out.Close()
	}
	if err := roster.ExportStandingsCSV(out, standings); err != nil {
		log.Fatalf("Error exporting standings: %v", err)
	}
}

func backupBucket(bucket string) string {
	if bucket != "" {
		return bucket
	}
	return os.Getenv(internal.BackupBucketEnvVar)
}

func handleBackup(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	dbPath := dbFlag(fs)
	tid := fs.Int64("tid", 0, "Tournament id")
	bucket := fs.String("bucket", "", "S3 bucket to store the snapshot in")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *tid <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --tid.")
		fs.Usage()
		os.Exit(1)
	}
	bucketName := backupBucket(*bucket)
	if bucketName == "" {
		fmt.Fprintf(os.Stderr, "Please provide --bucket or set %v.\n",
			internal.BackupBucketEnvVar)
		os.Exit(1)
	}

	s := openStore(*dbPath)
	defer s.Close()

	snap, err := swiss.NewEngine(s).ExportSnapshot(ctx, *tid)
	if err != nil {
		log.Fatalf("Error exporting tid:%d: %v", *tid, err)
	}

	backups := s3backup.New(bucketName)
	if err := backups.Init(ctx); err != nil {
		log.Fatalf("Error initializing backups: %v", err)
	}
	key, err := backups.Put(ctx, snap)
	if err != nil {
		log.Fatalf("Error storing snapshot: %v", err)
	}
	fmt.Printf("Stored snapshot s3://%v/%v\n", bucketName, key)
}

func handleRestore(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	dbPath := dbFlag(fs)
	key := fs.String("key", "", "Snapshot object key to restore")
	bucket := fs.String("bucket", "", "S3 bucket holding the snapshot")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *key == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --key.")
		fs.Usage()
		os.Exit(1)
	}
	bucketName := backupBucket(*bucket)
	if bucketName == "" {
		fmt.Fprintf(os.Stderr, "Please provide --bucket or set %v.\n",
			internal.BackupBucketEnvVar)
		os.Exit(1)
	}

	backups := s3backup.New(bucketName)
	if err := backups.Init(ctx); err != nil {
		log.Fatalf("Error initializing backups: %v", err)
	}
	snap, err := backups.Get(ctx, *key)
	if err != nil {
		log.Fatalf("Error fetching snapshot %v: %v", *key, err)
	}

	s := openStore(*dbPath)
	defer s.Close()

	tid, err := s.ImportSnapshot(ctx, snap)
	if err != nil {
		log.Fatalf("Error restoring snapshot: %v", err)
	}
	fmt.Printf("Restored %q as tid:%d\n", snap.Tournament.Name, tid)
}
