package htmlbuilder

import (
	"fmt"
	"strings"
)

// BlockDecl describes a block, and the contexts it owns, as a nested value
// rather than through calls to Builder.Block. Pass the outermost one, built
// with DeclareRoot, to Builder.Declare:
//
//	b.Declare(htmlbuilder.DeclareRoot(siteRoot,
//		htmlbuilder.DeclareContext("body",
//			htmlbuilder.DeclareBlock(defaultBody),
//			htmlbuilder.DeclareBlock(articleBody, "article").Nest(
//				htmlbuilder.DeclareContext("sidebar",
//					htmlbuilder.DeclareBlock(articleSidebar),
//				),
//			),
//		),
//	))
type BlockDecl struct {
	content  ContentFunc
	views    []View
	contexts []*ContextDecl
}

// ContextDecl describes a context and the blocks that are candidates for
// filling it.
type ContextDecl struct {
	name   string
	blocks []*BlockDecl
}

// DeclareRoot describes the root block and the contexts it owns.
func DeclareRoot(content ContentFunc, contexts ...*ContextDecl) *BlockDecl {
	return &BlockDecl{content: content, contexts: contexts}
}

// DeclareContext describes the context called name, with blocks as its
// candidates.
func DeclareContext(name string, blocks ...*BlockDecl) *ContextDecl {
	return &ContextDecl{name: name, blocks: blocks}
}

// DeclareBlock describes a block, scoped to views if any are passed.
func DeclareBlock(content ContentFunc, views ...View) *BlockDecl {
	return &BlockDecl{content: content, views: views}
}

// Nest adds contexts owned by the block, and returns the block.
func (d *BlockDecl) Nest(contexts ...*ContextDecl) *BlockDecl {
	d.contexts = append(d.contexts, contexts...)
	return d
}

// Declare declares root as the root block, and everything nested in it under
// it. A BlockDecl may appear in more than one place, and is declared once for
// each; a BlockDecl that appears inside itself is rejected with
// ErrBlockCycle and nothing is declared.
func (b *Builder) Declare(root *BlockDecl) *Block {
	if root == nil {
		b.errs = append(b.errs, fmt.Errorf("error declaring blocks: %w", ErrNoRoot))
		return nil
	}
	if err := checkDecls(root); err != nil {
		b.errs = append(b.errs, err)
		return nil
	}
	blk := b.Root(root.content)
	b.declareContexts(blk, root.contexts)
	return blk
}

// DeclareUnder declares contexts, and everything nested in them, under an
// already declared block.
func (b *Builder) DeclareUnder(owner *Block, contexts ...*ContextDecl) {
	wrapper := &BlockDecl{contexts: contexts}
	if err := checkDecls(wrapper); err != nil {
		b.errs = append(b.errs, err)
		return
	}
	b.declareContexts(owner, contexts)
}

func (b *Builder) declareContexts(owner *Block, contexts []*ContextDecl) {
	for _, ctxDecl := range contexts {
		for _, blkDecl := range ctxDecl.blocks {
			blk := b.Block(ctxDecl.name, owner, blkDecl.content, blkDecl.views...)
			b.declareContexts(blk, blkDecl.contexts)
		}
	}
}

// checkDecls makes sure no BlockDecl contains itself, which would make
// declaring it recurse forever.
func checkDecls(root *BlockDecl) error {
	decls := newGraph[*BlockDecl]()
	names := map[*BlockDecl]string{}
	pending := []*BlockDecl{root}
	decls.add(root)
	names[root] = "root"
	for len(pending) > 0 {
		decl := pending[0]
		pending = pending[1:]
		for _, ctxDecl := range decl.contexts {
			for _, child := range ctxDecl.blocks {
				if _, ok := names[child]; !ok {
					names[child] = ctxDecl.name
					pending = append(pending, child)
				}
				decls.connect(decl, child)
			}
		}
	}
	_, err := decls.walk(func(decl *BlockDecl) string {
		return describeDecl(names[decl], decl.views)
	})
	if err != nil {
		return fmt.Errorf("error declaring blocks: %w", err)
	}
	return nil
}

func describeDecl(context string, views []View) string {
	if len(views) < 1 {
		return context
	}
	scoped := make([]string, 0, len(views))
	for _, view := range views {
		scoped = append(scoped, string(view))
	}
	return context + "[" + strings.Join(scoped, ",") + "]"
}
