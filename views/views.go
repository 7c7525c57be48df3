// Package views holds the HTML components of the generator page.
package views

import "github.com/ove9/seoblog/post"

// SiteConfig carries the settings templates need.
type SiteConfig struct {
	Name string // page heading and <title>
}

// blockRun is a stretch of consecutive blocks. Key message items form list
// runs; everything else forms plain runs.
type blockRun struct {
	list   bool
	start  int
	blocks []post.Block
}

func blockRuns(blocks []post.Block) []blockRun {
	var runs []blockRun
	for i, b := range blocks {
		list := b.Type == post.KeyMessageItem
		if n := len(runs); n > 0 && runs[n-1].list == list {
			runs[n-1].blocks = append(runs[n-1].blocks, b)
			continue
		}
		runs = append(runs, blockRun{list: list, start: i, blocks: []post.Block{b}})
	}
	return runs
}

const styles = `
*{box-sizing:border-box}
body{margin:0;min-height:100vh;background:#f9fafb;color:#1f2937;font-family:system-ui,-apple-system,"Apple SD Gothic Neo","Noto Sans KR",sans-serif;display:flex;flex-direction:column;align-items:center;padding:2rem 1rem}
header{width:100%;max-width:56rem;text-align:center;margin-bottom:2rem}
header h1{font-size:2.5rem;font-weight:800;margin:0;padding:.5rem 0;background:linear-gradient(90deg,#6366f1,#2563eb);-webkit-background-clip:text;background-clip:text;color:transparent}
main{width:100%;flex-grow:1;display:flex;flex-direction:column;align-items:center;justify-content:center}
.card{background:#fff;border:1px solid #e5e7eb;border-radius:.5rem;box-shadow:0 4px 6px rgba(0,0,0,.05);padding:2rem;text-align:center;max-width:42rem}
.card h2{color:#4f46e5;margin-top:0}
.muted{color:#6b7280;font-size:.875rem}
form.topic{width:100%;max-width:42rem;margin-top:2rem;display:flex;background:#fff;border:1px solid #d1d5db;border-radius:9999px;padding:.375rem;box-shadow:0 10px 15px rgba(0,0,0,.08)}
form.topic input{flex:1;border:0;outline:0;padding:0 1rem;font-size:1rem;background:transparent}
button{border:0;border-radius:9999px;color:#fff;font-weight:700;padding:.75rem 1.5rem;cursor:pointer;background:linear-gradient(90deg,#6366f1,#2563eb)}
button:disabled{background:#9ca3af;cursor:not-allowed}
.spinner{margin:0 auto;width:3rem;height:3rem;border-radius:50%;border-top:2px solid #6366f1;border-bottom:2px solid #6366f1;animation:spin 1s linear infinite}
@keyframes spin{to{transform:rotate(360deg)}}
.stage{margin-top:1rem;font-size:1.125rem;color:#4f46e5}
.error{background:#fef2f2;border-color:#fca5a5}
.error h3{color:#b91c1c;margin-top:0}
.error p{color:#dc2626}
.error button{background:#dc2626}
article{width:100%;max-width:56rem;background:#fff;border:1px solid #e5e7eb;border-radius:.5rem;box-shadow:0 20px 25px rgba(0,0,0,.08);padding:2.5rem;line-height:1.8}
article h1{color:#111827}
article h2{color:#1f2937;margin-top:2rem}
article img{max-width:100%;height:auto;border-radius:.5rem;box-shadow:0 4px 6px rgba(0,0,0,.1);margin:2rem 0}
article h3.key{color:#4f46e5;margin-top:2rem;border-top:1px solid #e5e7eb;padding-top:1.5rem}
.actions{text-align:center;margin-top:3rem}
footer{color:#9ca3af;font-size:.875rem;padding:1rem;margin-top:2rem;text-align:center}
`
