package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// Registry queues feature modules and mounts them under /api in the order
// they were added.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup

	shared  []gin.HandlerFunc
	modules []Module
	mounted bool
}

// NewRegistry mounts an empty /api group on engine.
func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

// Use adds middleware shared by every module. It must precede RegisterAll.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	if r.mounted {
		panic("router: Use after RegisterAll")
	}
	r.shared = append(r.shared, mw...)
}

// Add queues mod. Modules added after RegisterAll would never be mounted,
// so that panics.
func (r *Registry) Add(mod Module) {
	if r.mounted {
		panic("router: Add after RegisterAll")
	}
	r.modules = append(r.modules, mod)
}

// RegisterAll applies the shared middleware, then each module. Later calls
// are no-ops.
func (r *Registry) RegisterAll() {
	if r.mounted {
		return
	}
	r.mounted = true
	if len(r.shared) > 0 {
		r.API.Use(r.shared...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}

// Routes lists "METHOD path" for every route on the engine, sorted.
func (r *Registry) Routes() []string {
	infos := r.Engine.Routes()
	out := make([]string, 0, len(infos))
	for _, ri := range infos {
		out = append(out, ri.Method+" "+ri.Path)
	}
	sort.Strings(out)
	return out
}
