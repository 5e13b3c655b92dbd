package routepath

import (
	"testing"

	"github.com/louisbranch/liftboard/internal/client/board"
)

func TestRouteBuilders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		got  string
		want string
	}{
		{got: Post("abc"), want: "/post/abc"},
		{got: User(" u1 "), want: "/user/u1"},
		{got: Thumbnail("a/b"), want: "/upload/post/a%2Fb"},
		{got: SubmitComment("p1"), want: "/submitComment/p1"},
		{got: WithPage(Root, ""), want: "/"},
		{got: WithPage(Root, "a=b"), want: "/?page=a%3Db"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Fatalf("route = %q, want %q", tc.got, tc.want)
		}
	}
}

func TestClientRoutesMatchScript(t *testing.T) {
	t.Parallel()

	for got, want := range map[string]string{
		LikePrefix:          board.LikePath,
		RemoveLikePrefix:    board.RemoveLikePath,
		DeletePostPrefix:    board.DeletePostPath,
		DeleteUserPrefix:    board.DeleteUserPath,
		DeleteCommentPrefix: board.DeleteCommentPath,
	} {
		if got != want {
			t.Fatalf("prefix = %q, want %q", got, want)
		}
	}
}
