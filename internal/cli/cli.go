// Package cli is the command-line front of the client: a thin consumer of
// the stores that parses arguments, calls mutators and prints cache state.
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"pepesbook/internal/api"
	"pepesbook/internal/config"
	"pepesbook/internal/model"
	"pepesbook/internal/session"
	"pepesbook/internal/store"
)

// App wires the gateway, the session and the four caches together.
type App struct {
	API       *api.Client
	Session   *session.Store
	Users     *store.UserStore
	Posts     *store.PostStore
	Comments  *store.CommentStore
	Reactions *store.ReactionStore
}

func NewApp(cfg *config.Config) (*App, error) {
	sess, err := session.NewStore(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)

	return &App{
		API:       client,
		Session:   sess,
		Users:     store.NewUserStore(client),
		Posts:     store.NewPostStore(client, sess),
		Comments:  store.NewCommentStore(client, sess),
		Reactions: store.NewReactionStore(client, sess),
	}, nil
}

const usage = `usage: pepesbook <command> [args]

commands:
  login <first-name>         create a user and start a session
  logout                     clear the session
  whoami                     show the active session
  feed                       fetch and print the feed
  post <content> [image]     create a post, optionally with an image file
  delete <post-id>           delete one of your posts
  comments <post-id>         fetch and print a post's comments
  comment <post-id> <text>   comment on a post
  uncomment <comment-id> <post-id>
                             delete your comment
  react <post-id> <type>     react (like|love|haha|sad)
  unreact <post-id>          remove your reaction
  reactions <post-id>        print a post's reaction tally
  avatar <image-file>        upload a new profile picture
`

// Run dispatches a single CLI invocation.
func Run(args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "login":
		return app.login(ctx, rest)
	case "logout":
		app.Session.Logout()
		fmt.Println("logged out")
		return nil
	case "whoami":
		return app.whoami(ctx)
	case "feed":
		return app.feed(ctx)
	case "post":
		return app.post(ctx, rest)
	case "delete":
		return app.deletePost(ctx, rest)
	case "comments":
		return app.comments(ctx, rest)
	case "comment":
		return app.comment(ctx, rest)
	case "uncomment":
		return app.uncomment(ctx, rest)
	case "react":
		return app.react(ctx, rest)
	case "unreact":
		return app.unreact(ctx, rest)
	case "reactions":
		return app.reactions(ctx, rest)
	case "avatar":
		return app.avatar(ctx, rest)
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) login(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("login: first name required")
	}

	user, err := a.Users.CreateUser(ctx, strings.Join(args, " "), nil)
	if err != nil {
		return err
	}

	a.Session.Login(user)
	fmt.Printf("logged in as %s (id=%d)\n", user.FirstName, user.ID)
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	user, ok := a.Session.CurrentUser()
	if !ok {
		fmt.Println("not logged in")
		return nil
	}

	fmt.Printf("%s (id=%d)\n", user.FirstName, user.ID)
	if user.ProfilePic != nil {
		fmt.Printf("avatar: %s\n", a.API.ResolveImageURL(*user.ProfilePic))
	}
	return nil
}

func (a *App) feed(ctx context.Context) error {
	if err := a.Posts.FetchPosts(ctx); err != nil {
		return err
	}

	posts := a.Posts.Posts()
	if len(posts) == 0 {
		fmt.Println("the feed is empty")
		return nil
	}

	for _, p := range posts {
		fmt.Printf("#%d  %s  %s\n", p.ID, a.authorName(ctx, p.UserID), p.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Printf("    %s\n", p.Content)
		if p.ImageURL != nil {
			fmt.Printf("    image: %s\n", a.API.ResolveImageURL(*p.ImageURL))
		}
	}
	return nil
}

// authorName resolves a post's author through the user cache, fetching
// lazily on first reference.
func (a *App) authorName(ctx context.Context, userID int64) string {
	if user, ok := a.Users.GetUserByID(userID); ok {
		return user.FirstName
	}
	user, err := a.Users.FetchUser(ctx, userID)
	if err != nil {
		return fmt.Sprintf("user %d", userID)
	}
	return user.FirstName
}

func (a *App) post(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("post: content required")
	}

	var image []byte
	if len(args) > 1 {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read image file: %w", err)
		}
		image = data
	}

	created, err := a.Posts.CreatePost(ctx, args[0], image)
	if err != nil {
		return err
	}

	fmt.Printf("posted #%d\n", created.ID)
	return nil
}

func (a *App) deletePost(ctx context.Context, args []string) error {
	postID, err := argID(args, 0, "post-id")
	if err != nil {
		return err
	}
	if err := a.Posts.DeletePost(ctx, postID); err != nil {
		return err
	}
	fmt.Printf("deleted post #%d\n", postID)
	return nil
}

func (a *App) comments(ctx context.Context, args []string) error {
	postID, err := argID(args, 0, "post-id")
	if err != nil {
		return err
	}
	if err := a.Comments.FetchComments(ctx, postID); err != nil {
		return err
	}

	comments := a.Comments.GetCommentsByPostID(postID)
	if len(comments) == 0 {
		fmt.Println("no comments")
		return nil
	}
	for _, c := range comments {
		fmt.Printf("#%d  %s: %s\n", c.ID, a.authorName(ctx, c.UserID), c.Content)
	}
	return nil
}

func (a *App) comment(ctx context.Context, args []string) error {
	postID, err := argID(args, 0, "post-id")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("comment: text required")
	}

	created, err := a.Comments.CreateComment(ctx, postID, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Printf("commented #%d on post #%d\n", created.ID, postID)
	return nil
}

func (a *App) uncomment(ctx context.Context, args []string) error {
	commentID, err := argID(args, 0, "comment-id")
	if err != nil {
		return err
	}
	postID, err := argID(args, 1, "post-id")
	if err != nil {
		return err
	}
	if err := a.Comments.DeleteComment(ctx, commentID, postID); err != nil {
		return err
	}
	fmt.Printf("deleted comment #%d\n", commentID)
	return nil
}

func (a *App) react(ctx context.Context, args []string) error {
	postID, err := argID(args, 0, "post-id")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("react: type required (like|love|haha|sad)")
	}

	reaction, err := a.Reactions.AddReaction(ctx, postID, args[1])
	if err != nil {
		return err
	}
	fmt.Printf("reacted %s to post #%d\n", reaction.Type, postID)
	return nil
}

func (a *App) unreact(ctx context.Context, args []string) error {
	postID, err := argID(args, 0, "post-id")
	if err != nil {
		return err
	}
	if err := a.Reactions.RemoveReaction(ctx, postID); err != nil {
		return err
	}
	fmt.Printf("removed reaction from post #%d\n", postID)
	return nil
}

func (a *App) reactions(ctx context.Context, args []string) error {
	postID, err := argID(args, 0, "post-id")
	if err != nil {
		return err
	}
	if err := a.Reactions.FetchReactions(ctx, postID); err != nil {
		return err
	}

	counts := a.Reactions.GetReactionsByType(postID)
	for _, t := range model.ReactionTypes {
		fmt.Printf("%-5s %d\n", t, counts[t])
	}
	fmt.Printf("total %d\n", a.Reactions.GetReactionCount(postID))

	if mine, ok := a.Reactions.GetUserReaction(postID); ok {
		fmt.Printf("yours: %s\n", mine.Type)
	}
	return nil
}

func (a *App) avatar(ctx context.Context, args []string) error {
	user, ok := a.Session.CurrentUser()
	if !ok {
		return model.ErrNotAuthenticated
	}
	if len(args) < 1 {
		return fmt.Errorf("avatar: image file required")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image file: %w", err)
	}

	updated, err := a.Users.UpdateProfilePicture(ctx, user.ID, data)
	if err != nil {
		return err
	}

	a.Session.UpdateUser(updated)
	if updated.ProfilePic != nil {
		fmt.Printf("avatar updated: %s\n", a.API.ResolveImageURL(*updated.ProfilePic))
	}
	return nil
}

func argID(args []string, idx int, name string) (int64, error) {
	if len(args) <= idx {
		return 0, fmt.Errorf("%s required", name)
	}
	id, err := strconv.ParseInt(args[idx], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[idx])
	}
	return id, nil
}
