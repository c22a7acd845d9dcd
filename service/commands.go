package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"postadmin/app/models"
	"postadmin/app/repositories"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/crypto/bcrypt"
)

// Version is the released version of postadmin.
const Version = "1.0.0"

// HandleCommand runs a subcommand and returns its exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printHelp()
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "serve":
		return RunAppServer(args[1:])
	case "create":
		return createPost(args[1:])
	case "list":
		return listPosts(args[1:])
	case "backup":
		return backup(args[1:])
	case "restore":
		return restore(args[1:])
	case "hash-password":
		return hashPassword(args[1:])
	case "version":
		fmt.Fprintf(stdout, "postadmin version %s\n", Version)
		return 0
	case "help":
		printHelp()
		return 0
	default:
		fmt.Fprintf(stdout, "Unknown command: %s\n\n", cmd)
		printHelp()
		return 1
	}
}

func printHelp() {
	helpText := `Usage: postadmin <command> [options]

Commands:
  serve [--config file] [--env name]           Run the posts admin web service
  create --slug s --title t --file f.md        Store a new post ("-" reads markdown from stdin)
  list                                         List stored posts
  backup <file>                                Write a backup of the post store
  restore [--force] <file>                     Restore the post store from a backup
  hash-password <password>                     Print a bcrypt hash for admin_password_hash
  version                                      Show version information
  help                                         Display this help message

Every command accepts --config and --env.
`
	fmt.Fprintln(stdout, helpText)
}

// createPost stores a new post read from a markdown file.
func createPost(args []string) int {
	fs, gf := newFlagSet("create")
	slug := fs.String("slug", "", "post slug")
	title := fs.String("title", "", "post title")
	file := fs.String("file", "", "markdown file, - for stdin")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *file == "" {
		return fail("--file is required")
	}
	var src io.Reader = os.Stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			return fail("open markdown file: %v", err)
		}
		defer f.Close()
		src = f
	}
	body, err := io.ReadAll(src)
	if err != nil {
		return fail("read markdown: %v", err)
	}

	cfg, err := gf.load()
	if err != nil {
		return fail("%v", err)
	}
	postService, closeDB, err := openPostService(cfg)
	if err != nil {
		return fail("%v", err)
	}
	defer closeDB()

	post := &models.Post{Title: *title, Slug: *slug, Markdown: string(body)}
	err = postService.CreatePost(context.Background(), post)

	var fieldErrs models.FieldErrors
	switch {
	case err == nil:
	case errors.As(err, &fieldErrs):
		return fail("%s", fieldErrs.Error())
	case errors.Is(err, repositories.ErrSlugTaken):
		return fail("slug %q is already in use", post.Slug)
	default:
		return fail("%v", err)
	}

	fmt.Fprintf(stdout, "Created post %s\n", post.Slug)
	return 0
}

func listPosts(args []string) int {
	fs, gf := newFlagSet("list")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := gf.load()
	if err != nil {
		return fail("%v", err)
	}
	postService, closeDB, err := openPostService(cfg)
	if err != nil {
		return fail("%v", err)
	}
	defer closeDB()

	posts, err := postService.ListPosts(context.Background())
	if err != nil {
		return fail("%v", err)
	}
	if len(posts) == 0 {
		fmt.Fprintln(stdout, "No posts")
		return 0
	}
	for _, p := range posts {
		fmt.Fprintf(stdout, "%s\t%s\t%s\n", p.Slug, p.Title, p.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return 0
}

func hashPassword(args []string) int {
	if len(args) != 1 || args[0] == "" {
		return fail("exactly one password argument required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
	if err != nil {
		return fail("hash password: %v", err)
	}
	fmt.Fprintln(stdout, string(hash))
	return 0
}

// backup writes a full badger backup of the post store.
func backup(args []string) int {
	fs, gf := newFlagSet("backup")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		return fail("backup file path required")
	}
	backupFile := fs.Arg(0)

	cfg, err := gf.load()
	if err != nil {
		return fail("%v", err)
	}
	if cfg.InMemory {
		return fail("in-memory store has nothing to back up")
	}
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		return fail("no database exists at %s", cfg.DBPath)
	}

	db, err := repositories.OpenDB(cfg.DBPath, false)
	if err != nil {
		return fail("%v", err)
	}
	defer db.Close()

	f, err := os.Create(backupFile)
	if err != nil {
		return fail("create backup file: %v", err)
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		return fail("backup database: %v", err)
	}

	fmt.Fprintf(stdout, "Database backed up successfully to %s\n", backupFile)
	return 0
}

// restore loads a backup into a fresh store, replacing the existing one with --force.
func restore(args []string) int {
	fs, gf := newFlagSet("restore")
	force := fs.Bool("force", false, "replace an existing database")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		return fail("backup file path required for restore")
	}
	backupFile := fs.Arg(0)

	cfg, err := gf.load()
	if err != nil {
		return fail("%v", err)
	}
	if cfg.InMemory {
		return fail("cannot restore into an in-memory store")
	}

	fi, err := os.Stat(backupFile)
	if err != nil {
		return fail("backup file does not exist: %s", backupFile)
	}
	if fi.Size() == 0 {
		return fail("backup file is empty: %s", backupFile)
	}

	if _, err := os.Stat(cfg.DBPath); err == nil {
		if !*force {
			return fail("database already exists at %s, use --force to replace it", cfg.DBPath)
		}
		if err := os.RemoveAll(cfg.DBPath); err != nil {
			return fail("remove existing database: %v", err)
		}
	}

	db, err := repositories.OpenDB(cfg.DBPath, false)
	if err != nil {
		return fail("%v", err)
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return fail("open backup file: %v", err)
	}
	defer f.Close()

	if err := loadBackup(db.DB, f); err != nil {
		return fail("restore database: %v", err)
	}

	fmt.Fprintln(stdout, "Database restored successfully")
	return 0
}

// loadBackup guards against badger panicking on a corrupt backup stream.
func loadBackup(db *badger.DB, r io.Reader) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic during restore: %v", p)
		}
	}()
	return db.Load(r, 4)
}
