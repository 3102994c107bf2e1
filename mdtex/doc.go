// Package mdtex converts Markdown documents into LaTeX body source.
//
// The conversion runs in three stages. A preprocessing pass rewrites the
// line-oriented extensions (display-equation blocks and raw-LaTeX fences)
// and applies protective substitutions to the remaining lines. The
// preprocessed text is then parsed by goldmark and the resulting event
// stream is translated to LaTeX in a single forward pass. Finally a
// postprocessing pass repairs the places where the protective
// substitutions collided with the generic text escaping.
//
// The output is LaTeX body markup only. The caller is responsible for
// wrapping it in a document with the required packages (tabularx,
// listings, hyperref, graphicx, amsmath).
package mdtex
