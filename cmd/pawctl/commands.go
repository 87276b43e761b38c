package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"pawcircle/internal/loader"
	"pawcircle/internal/member"
	"pawcircle/internal/models"
	"pawcircle/internal/service"
	"pawcircle/internal/store/remote"
)

const defaultServer = "http://localhost:8375"

const usage = `usage: pawctl <command> <collection> [flags]

commands:
  list <collection>        print one or more pages of records
  get <collection> <id>    print a single record
  post <collection>        create a record from a JSON body
  collections              list the known collections
`

// collectionCommands runs the loaders for one record type.
type collectionCommands struct {
	list func(ctx context.Context, client *remote.Client, pages int, filter map[string]string) (any, error)
	get  func(ctx context.Context, client *remote.Client, id string) (any, error)
	post func(ctx context.Context, client *remote.Client, body []byte, author string) (any, error)
}

func commandsFor[E any, T models.EntityPtr[E]](bp loader.Blueprint[T]) collectionCommands {
	return collectionCommands{
		list: func(ctx context.Context, client *remote.Client, pages int, filter map[string]string) (any, error) {
			l := loader.NewListLoader[T](remote.NewCollection[E, T](client), loader.WithFilter(filter))
			defer l.Close()
			if err := l.LoadPages(ctx, pages); err != nil {
				return nil, err
			}
			return l.State(), nil
		},
		get: func(ctx context.Context, client *remote.Client, id string) (any, error) {
			d := loader.NewDetailLoader[T](remote.NewCollection[E, T](client))
			defer d.Close()
			state := d.Load(ctx, id)
			if !state.Found() {
				return nil, fmt.Errorf("%s not found", id)
			}
			return state.Item, nil
		},
		post: func(ctx context.Context, client *remote.Client, body []byte, author string) (any, error) {
			draft := T(new(E))
			if err := json.Unmarshal(body, draft); err != nil {
				return nil, fmt.Errorf("invalid JSON body: %w", err)
			}
			return loader.NewSubmitter[T](remote.NewCollection[E, T](client), bp).Submit(ctx, draft, author)
		},
	}
}

var collections = map[string]collectionCommands{
	models.CollectionCommunityPosts:       commandsFor[models.CommunityPost](service.PostBlueprint()),
	models.CollectionPetWikiArticles:      commandsFor[models.PetWikiArticle](service.ArticleBlueprint()),
	models.CollectionEmergencyAlerts:      commandsFor[models.EmergencyAlert](service.AlertBlueprint()),
	models.CollectionEvents:               commandsFor[models.Event](loader.Blueprint[*models.Event]{}),
	models.CollectionNeighbourhoodCircles: commandsFor[models.NeighbourhoodCircle](loader.Blueprint[*models.NeighbourhoodCircle]{}),
	models.CollectionBreedClubs:           commandsFor[models.BreedClub](loader.Blueprint[*models.BreedClub]{}),
	models.CollectionRescueDirectory:      commandsFor[models.RescueOrganization](loader.Blueprint[*models.RescueOrganization]{}),
	models.CollectionChallenges:           commandsFor[models.Challenge](loader.Blueprint[*models.Challenge]{}),
	models.CollectionUserProfiles:         commandsFor[models.UserProfile](loader.Blueprint[*models.UserProfile]{}),
}

// filterFlag collects repeated -filter field=value pairs.
type filterFlag map[string]string

func (f filterFlag) String() string {
	pairs := make([]string, 0, len(f))
	for k, v := range f {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (f filterFlag) Set(s string) error {
	field, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(field) == "" {
		return fmt.Errorf("filter %q must look like field=value", s)
	}
	f[strings.TrimSpace(field)] = value
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	cmd, rest := args[0], args[1:]
	if cmd == "collections" {
		names := make([]string, 0, len(collections))
		for name := range collections {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(stdout, strings.Join(names, "\n"))
		return 0
	}
	if cmd != "list" && cmd != "get" && cmd != "post" {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}
	if len(rest) == 0 {
		fmt.Fprintf(stderr, "%s: collection is required\n", cmd)
		return 2
	}
	name, rest := rest[0], rest[1:]
	commands, ok := collections[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown collection %q (see pawctl collections)\n", name)
		return 2
	}

	fs := flag.NewFlagSet("pawctl "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	server := fs.String("server", envOr("PAWCIRCLE_URL", defaultServer), "API base URL")
	apiKey := fs.String("api-key", os.Getenv("CONTENT_API_KEY"), "Service API key")
	token := fs.String("token", os.Getenv("PAWCIRCLE_TOKEN"), "Member token, required by post")
	timeout := fs.Duration("timeout", 30*time.Second, "Overall request timeout")
	pages := fs.Int("pages", 1, "Number of pages to load (list)")
	author := fs.String("author", member.AnonymousName, "Author name stamped on the record (post)")
	body := fs.String("data", "", "JSON body; read from stdin when empty (post)")
	filter := filterFlag{}
	fs.Var(filter, "filter", "Exact-match field=value condition, repeatable (list)")

	if err := fs.Parse(rest); err != nil {
		return 2
	}

	client := remote.NewClient(*server, *apiKey)
	client.Token = *token

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	var (
		out any
		err error
	)
	switch cmd {
	case "list":
		out, err = commands.list(ctx, client, service.ClampPages(*pages), filter)
	case "get":
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "get: exactly one record id is required")
			return 2
		}
		out, err = commands.get(ctx, client, fs.Arg(0))
	case "post":
		if client.Token == "" {
			fmt.Fprintln(stderr, "post: a member token is required (-token or PAWCIRCLE_TOKEN)")
			return 2
		}
		data := []byte(*body)
		if len(data) == 0 {
			if data, err = io.ReadAll(stdin); err != nil {
				fmt.Fprintf(stderr, "read body: %v\n", err)
				return 1
			}
		}
		out, err = commands.post(ctx, client, data, *author)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s %s: %v\n", cmd, name, describe(err))
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "write output: %v\n", err)
		return 1
	}
	return 0
}

// describe prefers the message of a validation error over its wrapped form.
func describe(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
